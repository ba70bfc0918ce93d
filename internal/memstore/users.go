package memstore

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
	"isvaryam.com/storefront/pkg/notify"
)

type Users struct {
	mu    sync.Mutex
	users map[bson.ObjectID]models.User
}

func NewUsers(users ...models.User) *Users {
	s := &Users{users: map[bson.ObjectID]models.User{}}
	for _, u := range users {
		u := u
		_ = s.Create(context.Background(), &u)
	}
	return s
}

func (s *Users) GetByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, global.NotFound("User not found")
	}
	return &u, nil
}

func (s *Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, global.NotFound("User not found")
}

func (s *Users) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return global.Conflict("duplicate email")
		}
	}
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Users) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return global.NotFound("User not found")
	}
	s.users[user.ID] = *user
	return nil
}

type Recipes struct {
	mu      sync.Mutex
	recipes map[bson.ObjectID]models.Recipe
}

func NewRecipes() *Recipes {
	return &Recipes{recipes: map[bson.ObjectID]models.Recipe{}}
}

func (s *Recipes) Create(_ context.Context, recipe *models.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if recipe.ID.IsZero() {
		recipe.ID = bson.NewObjectID()
	}
	s.recipes[recipe.ID] = *recipe
	return nil
}

func (s *Recipes) List(_ context.Context) ([]models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, r)
	}
	return out, nil
}

func (s *Recipes) GetByID(_ context.Context, id bson.ObjectID) (*models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipes[id]
	if !ok {
		return nil, global.NotFound("Recipe not found")
	}
	return &r, nil
}

func (s *Recipes) Replace(_ context.Context, recipe *models.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recipes[recipe.ID]; !ok {
		return global.NotFound("Recipe not found")
	}
	s.recipes[recipe.ID] = *recipe
	return nil
}

func (s *Recipes) Delete(_ context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recipes[id]; !ok {
		return global.NotFound("Recipe not found")
	}
	delete(s.recipes, id)
	return nil
}

func (s *Recipes) SetLike(_ context.Context, id, userID bson.ObjectID, liked bool) (*models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipes[id]
	if !ok {
		return nil, global.NotFound("Recipe not found")
	}
	likes := []bson.ObjectID{}
	for _, l := range r.Likes {
		if l != userID {
			likes = append(likes, l)
		}
	}
	if liked {
		likes = append(likes, userID)
	}
	r.Likes = likes
	s.recipes[id] = r
	return &r, nil
}

func (s *Recipes) AddRating(_ context.Context, id bson.ObjectID, rating models.RecipeRating) (*models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipes[id]
	if !ok {
		return nil, global.NotFound("Recipe not found")
	}
	r.Ratings = append(append([]models.RecipeRating{}, r.Ratings...), rating)
	s.recipes[id] = r
	return &r, nil
}

type otpEntry struct {
	value    string
	attempts int64
	expires  time.Time
}

// OTP expires entries against Now, which tests can move forward.
type OTP struct {
	mu      sync.Mutex
	entries map[string]*otpEntry
	Now     func() time.Time
}

func NewOTP() *OTP {
	return &OTP{entries: map[string]*otpEntry{}, Now: time.Now}
}

func (s *OTP) live(key string) *otpEntry {
	e, ok := s.entries[key]
	if !ok {
		return nil
	}
	if !s.Now().Before(e.expires) {
		delete(s.entries, key)
		return nil
	}
	return e
}

func (s *OTP) Save(_ context.Context, purpose, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[purpose+":"+email] = &otpEntry{value: code, expires: s.Now().Add(ttl)}
	return nil
}

func (s *OTP) Get(_ context.Context, purpose, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(purpose + ":" + email)
	if e == nil {
		return "", global.NotFound("OTP not found")
	}
	return e.value, nil
}

func (s *OTP) IncrementAttempts(_ context.Context, purpose, email string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(purpose + ":" + email)
	if e == nil {
		return 0, global.NotFound("OTP not found")
	}
	e.attempts++
	return e.attempts, nil
}

func (s *OTP) Delete(_ context.Context, purpose, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, purpose+":"+email)
	return nil
}

func (s *OTP) MarkVerified(_ context.Context, purpose, email string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries["verified:"+purpose+":"+email] = &otpEntry{value: "1", expires: s.Now().Add(ttl)}
	return nil
}

func (s *OTP) ConsumeVerified(_ context.Context, purpose, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := "verified:" + purpose + ":" + email
	if s.live(key) == nil {
		return false, nil
	}
	delete(s.entries, key)
	return true, nil
}

// Outbox records mail instead of sending it. Err, when set, fails every send.
type Outbox struct {
	mu       sync.Mutex
	Messages []notify.Message
	Err      error
}

func (o *Outbox) Send(_ context.Context, msg notify.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return o.Err
	}
	o.Messages = append(o.Messages, msg)
	return nil
}

func (o *Outbox) Sent() []notify.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]notify.Message{}, o.Messages...)
}

type Event struct {
	Type string
	ID   string
}

// Events records published events. Err, when set, fails every publish.
type Events struct {
	mu     sync.Mutex
	Events []Event
	Err    error
}

func (e *Events) Publish(_ context.Context, event, id string, _ any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	e.Events = append(e.Events, Event{Type: event, ID: id})
	return nil
}

func (e *Events) Published() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Event{}, e.Events...)
}
