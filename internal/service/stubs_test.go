package service

import (
	"context"
	"sync"
	"time"

	"peakform/trainer-hub/internal/domain"
	"peakform/trainer-hub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories backing the service tests. They mirror the Mongo
// implementations' contract: ErrNotFound for missing records, ErrDuplicateKey
// where a unique index would fire.

type memUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email || existing.Name == user.Name {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	id := primitive.NewObjectID()
	stored := *user
	stored.ID = id
	r.users[id] = &stored
	return id, nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByName(ctx context.Context, name string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Name == name {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) Update(ctx context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *memUserRepo) List(ctx context.Context, filter repository.UserFilter, page repository.Page) ([]domain.User, int64, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, int64(len(out)), nil
}

type memClientRepo struct {
	clients map[primitive.ObjectID]*domain.Client
}

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{clients: make(map[primitive.ObjectID]*domain.Client)}
}

func (r *memClientRepo) Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error) {
	for _, existing := range r.clients {
		if existing.UserID == client.UserID {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	id := primitive.NewObjectID()
	stored := *client
	stored.ID = id
	r.clients[id] = &stored
	return id, nil
}

func (r *memClientRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *client
	return &copied, nil
}

func (r *memClientRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Client, error) {
	for _, client := range r.clients {
		if client.UserID == userID {
			copied := *client
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memClientRepo) Update(ctx context.Context, client *domain.Client) error {
	if _, ok := r.clients[client.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *client
	r.clients[client.ID] = &stored
	return nil
}

func (r *memClientRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(r.clients, id)
	return nil
}

func (r *memClientRepo) List(ctx context.Context, filter repository.ClientFilter, page repository.Page) ([]domain.Client, int64, error) {
	out := make([]domain.Client, 0, len(r.clients))
	for _, client := range r.clients {
		out = append(out, *client)
	}
	return out, int64(len(out)), nil
}

func (r *memClientRepo) SetTrainer(ctx context.Context, clientID, trainerID primitive.ObjectID) error {
	client, ok := r.clients[clientID]
	if !ok {
		return repository.ErrNotFound
	}
	client.TrainerID = &trainerID
	return nil
}

type memTrainerRepo struct {
	trainers map[primitive.ObjectID]*domain.Trainer
}

func newMemTrainerRepo() *memTrainerRepo {
	return &memTrainerRepo{trainers: make(map[primitive.ObjectID]*domain.Trainer)}
}

func (r *memTrainerRepo) Create(ctx context.Context, trainer *domain.Trainer) (primitive.ObjectID, error) {
	for _, existing := range r.trainers {
		if existing.UserID == trainer.UserID {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	id := primitive.NewObjectID()
	stored := *trainer
	stored.ID = id
	r.trainers[id] = &stored
	return id, nil
}

func (r *memTrainerRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error) {
	trainer, ok := r.trainers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *trainer
	return &copied, nil
}

func (r *memTrainerRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Trainer, error) {
	for _, trainer := range r.trainers {
		if trainer.UserID == userID {
			copied := *trainer
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memTrainerRepo) Update(ctx context.Context, trainer *domain.Trainer) error {
	if _, ok := r.trainers[trainer.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *trainer
	r.trainers[trainer.ID] = &stored
	return nil
}

func (r *memTrainerRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(r.trainers, id)
	return nil
}

func (r *memTrainerRepo) List(ctx context.Context, filter repository.TrainerFilter, page repository.Page) ([]domain.Trainer, int64, error) {
	out := make([]domain.Trainer, 0, len(r.trainers))
	for _, trainer := range r.trainers {
		out = append(out, *trainer)
	}
	return out, int64(len(out)), nil
}

type memPlanRepo struct {
	plans map[primitive.ObjectID]*domain.WorkoutPlan
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{plans: make(map[primitive.ObjectID]*domain.WorkoutPlan)}
}

func (r *memPlanRepo) Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *plan
	stored.ID = id
	r.plans[id] = &stored
	return id, nil
}

func (r *memPlanRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *plan
	return &copied, nil
}

func (r *memPlanRepo) Update(ctx context.Context, plan *domain.WorkoutPlan) error {
	if _, ok := r.plans[plan.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *plan
	r.plans[plan.ID] = &stored
	return nil
}

func (r *memPlanRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(r.plans, id)
	return nil
}

func (r *memPlanRepo) List(ctx context.Context, filter repository.PlanFilter, page repository.Page) ([]domain.WorkoutPlan, int64, error) {
	out := make([]domain.WorkoutPlan, 0, len(r.plans))
	for _, plan := range r.plans {
		out = append(out, *plan)
	}
	return out, int64(len(out)), nil
}

type memLogRepo struct {
	logs  map[primitive.ObjectID]*domain.WorkoutLog
	stats []domain.PeriodStats
}

func newMemLogRepo() *memLogRepo {
	return &memLogRepo{logs: make(map[primitive.ObjectID]*domain.WorkoutLog)}
}

func (r *memLogRepo) Create(ctx context.Context, entry *domain.WorkoutLog) (primitive.ObjectID, error) {
	for _, existing := range r.logs {
		if existing.PlanID == entry.PlanID && existing.ClientID == entry.ClientID && existing.Date.Equal(entry.Date) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	id := primitive.NewObjectID()
	stored := *entry
	stored.ID = id
	r.logs[id] = &stored
	return id, nil
}

func (r *memLogRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutLog, error) {
	entry, ok := r.logs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *entry
	return &copied, nil
}

func (r *memLogRepo) GetByPlanDate(ctx context.Context, planID, clientID primitive.ObjectID, date time.Time) (*domain.WorkoutLog, error) {
	for _, entry := range r.logs {
		if entry.PlanID == planID && entry.ClientID == clientID && entry.Date.Equal(date) {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memLogRepo) Update(ctx context.Context, entry *domain.WorkoutLog) error {
	if _, ok := r.logs[entry.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *entry
	r.logs[entry.ID] = &stored
	return nil
}

func (r *memLogRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(r.logs, id)
	return nil
}

func (r *memLogRepo) List(ctx context.Context, filter repository.LogFilter, page repository.Page) ([]domain.WorkoutLog, int64, error) {
	out := make([]domain.WorkoutLog, 0, len(r.logs))
	for _, entry := range r.logs {
		out = append(out, *entry)
	}
	return out, int64(len(out)), nil
}

func (r *memLogRepo) StatsByPeriod(ctx context.Context, clientID primitive.ObjectID, period repository.StatsPeriod) ([]domain.PeriodStats, error) {
	return r.stats, nil
}

type memMessageRepo struct {
	messages map[primitive.ObjectID]*domain.Message
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{messages: make(map[primitive.ObjectID]*domain.Message)}
}

func (r *memMessageRepo) Create(ctx context.Context, message *domain.Message) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *message
	stored.ID = id
	stored.CreatedAt = time.Now().UTC()
	r.messages[id] = &stored
	return id, nil
}

func (r *memMessageRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Message, error) {
	message, ok := r.messages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *message
	return &copied, nil
}

func (r *memMessageRepo) Conversation(ctx context.Context, userA, userB primitive.ObjectID, page repository.Page) ([]domain.Message, int64, error) {
	out := make([]domain.Message, 0)
	for _, message := range r.messages {
		if (message.SenderID == userA && message.ReceiverID == userB) ||
			(message.SenderID == userB && message.ReceiverID == userA) {
			out = append(out, *message)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memMessageRepo) MarkRead(ctx context.Context, id primitive.ObjectID) error {
	message, ok := r.messages[id]
	if !ok {
		return repository.ErrNotFound
	}
	message.Read = true
	return nil
}

func (r *memMessageRepo) CountUnread(ctx context.Context, receiverID primitive.ObjectID) (int64, error) {
	var count int64
	for _, message := range r.messages {
		if message.ReceiverID == receiverID && !message.Read {
			count++
		}
	}
	return count, nil
}

type memRequestRepo struct {
	requests map[primitive.ObjectID]*domain.TrainerChangeRequest
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{requests: make(map[primitive.ObjectID]*domain.TrainerChangeRequest)}
}

func (r *memRequestRepo) Create(ctx context.Context, request *domain.TrainerChangeRequest) (primitive.ObjectID, error) {
	for _, existing := range r.requests {
		if existing.ClientID == request.ClientID && existing.Status == domain.RequestPending {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	id := primitive.NewObjectID()
	stored := *request
	stored.ID = id
	r.requests[id] = &stored
	return id, nil
}

func (r *memRequestRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainerChangeRequest, error) {
	request, ok := r.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *request
	return &copied, nil
}

func (r *memRequestRepo) GetPendingByClient(ctx context.Context, clientID primitive.ObjectID) (*domain.TrainerChangeRequest, error) {
	for _, request := range r.requests {
		if request.ClientID == clientID && request.Status == domain.RequestPending {
			copied := *request
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memRequestRepo) Update(ctx context.Context, request *domain.TrainerChangeRequest) error {
	if _, ok := r.requests[request.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *request
	r.requests[request.ID] = &stored
	return nil
}

func (r *memRequestRepo) List(ctx context.Context, filter repository.RequestFilter, page repository.Page) ([]domain.TrainerChangeRequest, int64, error) {
	out := make([]domain.TrainerChangeRequest, 0, len(r.requests))
	for _, request := range r.requests {
		out = append(out, *request)
	}
	return out, int64(len(out)), nil
}

// recordedEvent is one Publish call captured by the recording notifier.
type recordedEvent struct {
	room  string
	event Event
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) Publish(userID string, event Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{room: userID, event: event})
}

func (n *recordingNotifier) recorded() []recordedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]recordedEvent, len(n.events))
	copy(out, n.events)
	return out
}

// fakeStorage hands back deterministic URLs instead of talking to S3.
type fakeStorage struct {
	uploads   []string
	downloads []string
}

func (s *fakeStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error) {
	s.uploads = append(s.uploads, objectKey)
	return "https://storage.test/upload/" + objectKey, nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	s.downloads = append(s.downloads, objectKey)
	return "https://storage.test/download/" + objectKey, nil
}

func (s *fakeStorage) DeleteObject(ctx context.Context, objectKey string) error {
	return nil
}
