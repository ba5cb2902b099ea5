package service

import (
	"context"
	"testing"

	"peakform/trainer-hub/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestClientCreateStartsValidated(t *testing.T) {
	users := newMemUserRepo()
	clients := newMemClientRepo()
	trainers := newMemTrainerRepo()
	svc := NewClientService(clients, trainers, users)
	ctx := context.Background()

	userID, err := users.Create(ctx, &domain.User{Name: "maria", Email: "maria@example.com"})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	client, err := svc.Create(ctx, userID, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !client.IsValidated {
		t.Error("admin-created client should start validated")
	}

	if _, err := svc.Create(ctx, userID, nil); !IsKind(err, KindDuplicate) {
		t.Errorf("duplicate profile: got %v, want duplicate", err)
	}
	if _, err := svc.Create(ctx, primitive.NewObjectID(), nil); !IsKind(err, KindValidation) {
		t.Errorf("unknown user: got %v, want validation", err)
	}

	unknownTrainer := primitive.NewObjectID()
	if _, err := svc.Create(ctx, userID, &unknownTrainer); !IsKind(err, KindValidation) {
		t.Errorf("unknown trainer: got %v, want validation", err)
	}
}

func TestClientAssignTrainer(t *testing.T) {
	users := newMemUserRepo()
	clients := newMemClientRepo()
	trainers := newMemTrainerRepo()
	svc := NewClientService(clients, trainers, users)
	ctx := context.Background()

	userID, err := users.Create(ctx, &domain.User{Name: "maria", Email: "maria@example.com"})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	client, err := svc.Create(ctx, userID, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	trainerID, err := trainers.Create(ctx, &domain.Trainer{UserID: primitive.NewObjectID(), IsValidated: true})
	if err != nil {
		t.Fatalf("seed trainer: %v", err)
	}

	assigned, err := svc.AssignTrainer(ctx, client.ID, trainerID)
	if err != nil {
		t.Fatalf("AssignTrainer failed: %v", err)
	}
	if assigned.TrainerID == nil || *assigned.TrainerID != trainerID {
		t.Errorf("trainer not assigned: %v", assigned.TrainerID)
	}

	if _, err := svc.AssignTrainer(ctx, client.ID, primitive.NewObjectID()); !IsKind(err, KindValidation) {
		t.Errorf("unknown trainer: got %v, want validation", err)
	}
	if _, err := svc.AssignTrainer(ctx, primitive.NewObjectID(), trainerID); !IsKind(err, KindNotFound) {
		t.Errorf("unknown client: got %v, want not_found", err)
	}
}

func TestClientRemoveIsIdempotent(t *testing.T) {
	svc := NewClientService(newMemClientRepo(), newMemTrainerRepo(), newMemUserRepo())

	if err := svc.Remove(context.Background(), primitive.NewObjectID()); err != nil {
		t.Fatalf("removing an absent client should succeed, got %v", err)
	}
}
