package service

import (
	"context"
	"testing"

	"peakform/trainer-hub/internal/domain"
	"peakform/trainer-hub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedUser(t *testing.T, users *memUserRepo, name string) primitive.ObjectID {
	t.Helper()
	id, err := users.Create(context.Background(), &domain.User{
		Name:  name,
		Email: name + "@example.com",
		Role:  domain.Role{Name: "client", Scopes: []domain.Scope{domain.ScopeClient}},
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return id
}

func TestMessageSendPersistsAndNotifies(t *testing.T) {
	users := newMemUserRepo()
	messages := newMemMessageRepo()
	notifier := &recordingNotifier{}
	svc := NewMessageService(messages, users, notifier)
	ctx := context.Background()

	sender := seedUser(t, users, "maria")
	receiver := seedUser(t, users, "coach")

	message, err := svc.Send(ctx, sender, receiver, "hello")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if message.Read {
		t.Error("new message should be unread")
	}

	events := notifier.recorded()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].room != receiver.Hex() || events[0].event.Type != EventMessageNew {
		t.Errorf("event %v went to %q, want %s to %q", events[0].event, events[0].room, EventMessageNew, receiver.Hex())
	}

	count, err := svc.UnreadCount(ctx, receiver)
	if err != nil || count != 1 {
		t.Errorf("UnreadCount = %d, %v; want 1", count, err)
	}
}

func TestMessageSendValidation(t *testing.T) {
	users := newMemUserRepo()
	svc := NewMessageService(newMemMessageRepo(), users, &recordingNotifier{})
	ctx := context.Background()

	sender := seedUser(t, users, "maria")
	receiver := seedUser(t, users, "coach")

	if _, err := svc.Send(ctx, sender, receiver, ""); !IsKind(err, KindValidation) {
		t.Errorf("empty content: got %v, want validation", err)
	}
	if _, err := svc.Send(ctx, sender, sender, "hi me"); !IsKind(err, KindValidation) {
		t.Errorf("self message: got %v, want validation", err)
	}
	if _, err := svc.Send(ctx, sender, primitive.NewObjectID(), "hi"); !IsKind(err, KindValidation) {
		t.Errorf("unknown receiver: got %v, want validation", err)
	}
}

func TestMessageMarkReadReceiverOnly(t *testing.T) {
	users := newMemUserRepo()
	svc := NewMessageService(newMemMessageRepo(), users, &recordingNotifier{})
	ctx := context.Background()

	sender := seedUser(t, users, "maria")
	receiver := seedUser(t, users, "coach")

	message, err := svc.Send(ctx, sender, receiver, "hello")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if _, err := svc.MarkRead(ctx, sender, message.ID); !IsKind(err, KindForbidden) {
		t.Errorf("sender MarkRead: got %v, want forbidden", err)
	}

	read, err := svc.MarkRead(ctx, receiver, message.ID)
	if err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if !read.Read {
		t.Error("message not flagged read")
	}

	count, err := svc.UnreadCount(ctx, receiver)
	if err != nil || count != 0 {
		t.Errorf("UnreadCount = %d, %v; want 0", count, err)
	}

	if _, err := svc.MarkRead(ctx, receiver, primitive.NewObjectID()); !IsKind(err, KindNotFound) {
		t.Errorf("unknown message: got %v, want not_found", err)
	}
}

func TestMessageConversationCoversBothDirections(t *testing.T) {
	users := newMemUserRepo()
	svc := NewMessageService(newMemMessageRepo(), users, &recordingNotifier{})
	ctx := context.Background()

	a := seedUser(t, users, "maria")
	b := seedUser(t, users, "coach")
	c := seedUser(t, users, "other")

	if _, err := svc.Send(ctx, a, b, "hi"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if _, err := svc.Send(ctx, b, a, "hey"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if _, err := svc.Send(ctx, a, c, "unrelated"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	messages, total, err := svc.Conversation(ctx, a, b, repository.Page{Limit: 50})
	if err != nil {
		t.Fatalf("Conversation failed: %v", err)
	}
	if total != 2 || len(messages) != 2 {
		t.Errorf("conversation has %d/%d messages, want 2", len(messages), total)
	}
}
