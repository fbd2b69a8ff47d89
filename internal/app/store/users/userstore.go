package userstore

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/lessonhub/internal/app/system/authz"
	"github.com/dalemusser/lessonhub/internal/app/system/normalize"
	"github.com/dalemusser/lessonhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

const (
	StatusActive   = "active"
	StatusDisabled = "disabled"

	bcryptCost = 12
)

var (
	// ErrDuplicateLoginID is returned when attempting to create a user with a login ID that already exists.
	ErrDuplicateLoginID = errors.New("a user with this login ID already exists")
	// ErrBadCredentials covers both unknown login IDs and wrong passwords.
	ErrBadCredentials = errors.New("invalid login ID or password")
	// ErrDisabled is returned by Authenticate for disabled accounts.
	ErrDisabled = errors.New("account is disabled")

	errBadRole    = errors.New(`role must be "superadmin"|"coordinator"|"teacher"|"student"`)
	errBadStatus  = errors.New(`status must be "active"|"disabled"`)
	errNoLoginID  = errors.New("login ID is required")
	errNoPassword = errors.New("password is required")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByLoginID looks up a user by case-insensitive login ID. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByLoginID(ctx context.Context, loginID string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"login_id_ci": text.Fold(normalize.LoginID(loginID))}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateInput holds the fields for a new account. Password is plain text and
// is hashed before storage.
type CreateInput struct {
	FullName string
	LoginID  string
	Password string
	Role     string
	Status   string
}

// Create inserts a new user after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.User, error) {
	u := models.User{
		ID:       primitive.NewObjectID(),
		FullName: normalize.Name(in.FullName),
		LoginID:  normalize.LoginID(in.LoginID),
		Role:     normalize.Role(in.Role),
		Status:   normalize.Status(in.Status),
	}
	u.FullNameCI = text.Fold(u.FullName)
	u.LoginIDCI = text.Fold(u.LoginID)
	if u.Status == "" {
		u.Status = StatusActive
	}

	if u.LoginID == "" {
		return models.User{}, errNoLoginID
	}
	if !authz.IsValidRole(u.Role) {
		return models.User{}, errBadRole
	}
	if u.Status != StatusActive && u.Status != StatusDisabled {
		return models.User{}, errBadStatus
	}
	if in.Password == "" {
		return models.User{}, errNoPassword
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}
	u.PasswordHash = hash

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateLoginID
		}
		return models.User{}, err
	}
	return u, nil
}

// Authenticate checks a login ID and password. Unknown users and wrong
// passwords both return ErrBadCredentials.
func (s *Store) Authenticate(ctx context.Context, loginID, password string) (*models.User, error) {
	u, err := s.GetByLoginID(ctx, loginID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Burn comparable time so unknown IDs are not distinguishable.
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	if normalize.Status(u.Status) == StatusDisabled {
		return nil, ErrDisabled
	}
	return u, nil
}

// SetStatus enables or disables an account.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	status = normalize.Status(status)
	if status != StatusActive && status != StatusDisabled {
		return errBadStatus
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CountByRole counts accounts with the given role.
func (s *Store) CountByRole(ctx context.Context, role string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"role": normalize.Role(role)})
}

// ListQuery selects accounts for the system users screens. Roles must not be
// empty; Query is a prefix over the folded full name and login ID.
type ListQuery struct {
	Roles    []string
	Query    string
	Page     int
	PageSize int
}

func (q ListQuery) filter() bson.M {
	roles := make([]string, 0, len(q.Roles))
	for _, r := range q.Roles {
		roles = append(roles, normalize.Role(r))
	}
	f := bson.M{"role": bson.M{"$in": roles}}
	if lo, hi := text.PrefixRange(strings.TrimSpace(q.Query)); lo != "" {
		f["$or"] = []bson.M{
			{"full_name_ci": bson.M{"$gte": lo, "$lt": hi}},
			{"login_id_ci": bson.M{"$gte": lo, "$lt": hi}},
		}
	}
	return f
}

// List returns one page of accounts sorted by name.
func (s *Store) List(ctx context.Context, q ListQuery) ([]models.User, error) {
	if len(q.Roles) == 0 {
		return []models.User{}, nil
	}
	page, size := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 25
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64((page - 1) * size)).
		SetLimit(int64(size)).
		SetProjection(bson.M{"password_hash": 0})
	cur, err := s.c.Find(ctx, q.filter(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns how many accounts match q, ignoring paging.
func (s *Store) Count(ctx context.Context, q ListQuery) (int64, error) {
	if len(q.Roles) == 0 {
		return 0, nil
	}
	return s.c.CountDocuments(ctx, q.filter())
}

// UpdateInput holds the editable profile fields. The login ID and password
// are not changed here.
type UpdateInput struct {
	FullName string
	Role     string
}

// Update changes a user's name and role.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) error {
	name := normalize.Name(in.FullName)
	role := normalize.Role(in.Role)
	if !authz.IsValidRole(role) {
		return errBadRole
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"full_name":    name,
		"full_name_ci": text.Fold(name),
		"role":         role,
		"updated_at":   time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// EnsureSuperAdmin creates the bootstrap superadmin when no superadmin exists
// yet. It reports whether an account was created.
func (s *Store) EnsureSuperAdmin(ctx context.Context, loginID, password string) (bool, error) {
	n, err := s.CountByRole(ctx, authz.RoleSuperAdmin)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	_, err = s.Create(ctx, CreateInput{
		FullName: "Super Admin",
		LoginID:  loginID,
		Password: password,
		Role:     authz.RoleSuperAdmin,
	})
	if errors.Is(err, ErrDuplicateLoginID) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

var (
	dummyOnce sync.Once
	dummy     []byte
)

func dummyHash() []byte {
	dummyOnce.Do(func() {
		dummy, _ = bcrypt.GenerateFromPassword([]byte("lessonhub"), bcryptCost)
	})
	return dummy
}

// hashPassword hashes a password using bcrypt with a cost of 12.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
