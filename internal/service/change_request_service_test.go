package service

import (
	"context"
	"testing"

	"peakform/trainer-hub/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type requestFixture struct {
	svc      ChangeRequestService
	clients  *memClientRepo
	trainers *memTrainerRepo
	clientID primitive.ObjectID
	oldID    primitive.ObjectID
	newID    primitive.ObjectID
}

func newRequestFixture(t *testing.T) *requestFixture {
	t.Helper()
	requests := newMemRequestRepo()
	clients := newMemClientRepo()
	trainers := newMemTrainerRepo()
	ctx := context.Background()

	oldID, err := trainers.Create(ctx, &domain.Trainer{UserID: primitive.NewObjectID(), IsValidated: true})
	if err != nil {
		t.Fatalf("seed trainer: %v", err)
	}
	newID, err := trainers.Create(ctx, &domain.Trainer{UserID: primitive.NewObjectID(), IsValidated: true})
	if err != nil {
		t.Fatalf("seed trainer: %v", err)
	}
	clientID, err := clients.Create(ctx, &domain.Client{UserID: primitive.NewObjectID(), TrainerID: &oldID, IsValidated: true})
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}

	return &requestFixture{
		svc:      NewChangeRequestService(requests, clients, trainers),
		clients:  clients,
		trainers: trainers,
		clientID: clientID,
		oldID:    oldID,
		newID:    newID,
	}
}

func TestChangeRequestCreateRecordsCurrentTrainer(t *testing.T) {
	f := newRequestFixture(t)

	request, err := f.svc.Create(context.Background(), f.clientID, f.newID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if request.Status != domain.RequestPending {
		t.Errorf("status %q, want pending", request.Status)
	}
	if request.CurrentTrainerID == nil || *request.CurrentTrainerID != f.oldID {
		t.Errorf("current trainer not captured: %v", request.CurrentTrainerID)
	}
	if request.RequestedTrainerID != f.newID {
		t.Errorf("requested trainer %s, want %s", request.RequestedTrainerID.Hex(), f.newID.Hex())
	}
}

func TestChangeRequestSinglePendingPerClient(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, f.clientID, f.newID); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	if _, err := f.svc.Create(ctx, f.clientID, f.oldID); !IsKind(err, KindConflict) {
		t.Fatalf("second pending: got %v, want conflict", err)
	}
}

func TestChangeRequestCreateValidatesParties(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, f.clientID, primitive.NewObjectID()); !IsKind(err, KindValidation) {
		t.Errorf("unknown trainer: got %v, want validation", err)
	}
	if _, err := f.svc.Create(ctx, primitive.NewObjectID(), f.newID); !IsKind(err, KindNotFound) {
		t.Errorf("unknown client: got %v, want not_found", err)
	}
}

func TestChangeRequestApproveReassignsTrainer(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	request, err := f.svc.Create(ctx, f.clientID, f.newID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	approved, err := f.svc.Approve(ctx, request.ID)
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if approved.Status != domain.RequestApproved {
		t.Errorf("status %q, want approved", approved.Status)
	}
	if approved.ResolvedAt == nil {
		t.Error("resolved timestamp not set")
	}

	client, err := f.clients.GetByID(ctx, f.clientID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if client.TrainerID == nil || *client.TrainerID != f.newID {
		t.Errorf("client trainer not reassigned: %v", client.TrainerID)
	}

	// Terminal states may not be resolved again.
	if _, err := f.svc.Approve(ctx, request.ID); !IsKind(err, KindInvalidState) {
		t.Errorf("re-approve: got %v, want invalid_state", err)
	}
	if _, err := f.svc.Reject(ctx, request.ID); !IsKind(err, KindInvalidState) {
		t.Errorf("reject after approve: got %v, want invalid_state", err)
	}
}

func TestChangeRequestRejectLeavesTrainer(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	request, err := f.svc.Create(ctx, f.clientID, f.newID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rejected, err := f.svc.Reject(ctx, request.ID)
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if rejected.Status != domain.RequestRejected {
		t.Errorf("status %q, want rejected", rejected.Status)
	}

	client, err := f.clients.GetByID(ctx, f.clientID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if client.TrainerID == nil || *client.TrainerID != f.oldID {
		t.Errorf("client trainer changed on reject: %v", client.TrainerID)
	}

	// A rejected request frees the slot for a fresh one.
	if _, err := f.svc.Create(ctx, f.clientID, f.newID); err != nil {
		t.Errorf("new request after reject failed: %v", err)
	}
}
