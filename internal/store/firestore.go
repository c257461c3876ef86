package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	paramCollection = "labParameters"
	userCollection  = "users"
	emailCollection = "userEmails"
)

// FirestoreStore implements the Store interface using Firestore.
//
// The unique compound key (UserID, ParameterName, Value, TestDate, Unit)
// is enforced by deriving the document ID from those five fields and
// inserting with Create, which fails with AlreadyExists when a
// concurrent identical insert wins the race.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) Store {
	return &FirestoreStore{client: client}
}

// paramDocID derives the deterministic document ID for the primary
// duplicate key.
func paramDocID(userID, parameterName, value, testDate, unit string) string {
	sum := sha256.Sum256([]byte(strings.Join(
		[]string{userID, parameterName, value, testDate, unit}, "\x1f")))
	return hex.EncodeToString(sum[:])
}

// Lab parameter operations

func (s *FirestoreStore) CreateLabParameter(ctx context.Context, param *LabParameter) error {
	docID := paramDocID(param.UserID, param.ParameterName, param.Value, param.TestDate, param.Unit)
	param.ID = docID
	if param.CreatedAt.IsZero() {
		param.CreatedAt = time.Now()
	}

	_, err := s.client.Collection(paramCollection).Doc(docID).Create(ctx, param)
	if status.Code(err) == codes.AlreadyExists {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("create lab parameter: %w", err)
	}
	return nil
}

func (s *FirestoreStore) FindLabParameterByData(ctx context.Context, userID, parameterName, value, testDate, unit string) (*LabParameter, error) {
	docID := paramDocID(userID, parameterName, value, testDate, unit)
	doc, err := s.client.Collection(paramCollection).Doc(docID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find lab parameter: %w", err)
	}

	var param LabParameter
	if err := doc.DataTo(&param); err != nil {
		return nil, fmt.Errorf("parse lab parameter: %w", err)
	}
	return &param, nil
}

func (s *FirestoreStore) FindLabParameterBySource(ctx context.Context, userID, parameterName, sourceFile, testDate string) (*LabParameter, error) {
	// NOTE: field names must match Go struct field names (PascalCase),
	// which is how Firestore serializes untagged structs.
	iter := s.client.Collection(paramCollection).
		Where("UserID", "==", userID).
		Where("ParameterName", "==", parameterName).
		Where("SourceFile", "==", sourceFile).
		Where("TestDate", "==", testDate).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find lab parameter by source: %w", err)
	}

	var param LabParameter
	if err := doc.DataTo(&param); err != nil {
		return nil, fmt.Errorf("parse lab parameter: %w", err)
	}
	return &param, nil
}

func (s *FirestoreStore) ListLabParameters(ctx context.Context, userID string) ([]*LabParameter, error) {
	// Ordering happens in memory to avoid requiring a composite index
	// on (UserID, TestDate, ExtractedAt); a user's row count stays small.
	docs, err := s.client.Collection(paramCollection).
		Where("UserID", "==", userID).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list lab parameters: %w", err)
	}

	params := make([]*LabParameter, 0, len(docs))
	for _, doc := range docs {
		var param LabParameter
		if err := doc.DataTo(&param); err != nil {
			return nil, fmt.Errorf("parse lab parameter: %w", err)
		}
		params = append(params, &param)
	}
	sortParameters(params)
	return params, nil
}

func (s *FirestoreStore) DeleteLabParameter(ctx context.Context, userID, paramID string) error {
	ref := s.client.Collection(paramCollection).Doc(paramID)
	doc, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get lab parameter: %w", err)
	}

	var param LabParameter
	if err := doc.DataTo(&param); err != nil {
		return fmt.Errorf("parse lab parameter: %w", err)
	}
	if param.UserID != userID {
		return ErrNotFound
	}

	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("delete lab parameter: %w", err)
	}
	return nil
}

func (s *FirestoreStore) DeleteAllLabParameters(ctx context.Context, userID string) (int, error) {
	docs, err := s.client.Collection(paramCollection).
		Where("UserID", "==", userID).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, fmt.Errorf("list lab parameters: %w", err)
	}

	deleted := 0
	for _, doc := range docs {
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return deleted, fmt.Errorf("delete lab parameter %s: %w", doc.Ref.ID, err)
		}
		deleted++
	}
	return deleted, nil
}

// User operations

func (s *FirestoreStore) CreateUser(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	// Claim the email first so two concurrent registrations cannot both
	// succeed; the claim doc ID is the email itself.
	claim := s.client.Collection(emailCollection).Doc(user.Email)
	if _, err := claim.Create(ctx, map[string]string{"UserID": user.ID}); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return ErrDuplicate
		}
		return fmt.Errorf("claim email: %w", err)
	}

	if _, err := s.client.Collection(userCollection).Doc(user.ID).Set(ctx, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetUser(ctx context.Context, userID string) (*User, error) {
	doc, err := s.client.Collection(userCollection).Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	var user User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("parse user: %w", err)
	}
	return &user, nil
}

func (s *FirestoreStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	claim, err := s.client.Collection(emailCollection).Doc(email).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get email claim: %w", err)
	}

	userID, err := claim.DataAt("UserID")
	if err != nil {
		return nil, fmt.Errorf("parse email claim: %w", err)
	}
	id, ok := userID.(string)
	if !ok {
		return nil, fmt.Errorf("email claim for %s has no user ID", email)
	}
	return s.GetUser(ctx, id)
}
