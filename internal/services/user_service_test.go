package services

import (
	"testing"

	"trackfolio/internal/testutil"
	"trackfolio/internal/uuid"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("Alice@Example.com", "secret123", "Alice", "Smith")
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected non-empty user ID")
		}
		if user.Email != "alice@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
		if user.Password == "secret123" {
			t.Error("expected password to be hashed")
		}
		if !svc.VerifyPassword(user, "secret123") {
			t.Error("expected password to verify")
		}
		if svc.VerifyPassword(user, "wrong") {
			t.Error("expected wrong password to fail")
		}
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("", "secret123", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateUser("alice@example.com", "", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("alice@example.com", "secret123", "", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("ALICE@example.com", "other456", "", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})
}

func TestGetUser(t *testing.T) {
	t.Run("by_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		created, err := svc.CreateUser("bob@example.com", "secret123", "Bob", "")
		testutil.AssertNoError(t, err)

		found, err := svc.GetUserByEmail("Bob@Example.com")
		testutil.AssertNoError(t, err)
		if found.ID != created.ID {
			t.Errorf("expected user %s, got %s", created.ID, found.ID)
		}
	})

	t.Run("by_id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		created, err := svc.CreateUser("bob@example.com", "secret123", "", "")
		testutil.AssertNoError(t, err)

		found, err := svc.GetUserByID(created.ID)
		testutil.AssertNoError(t, err)
		if found.Email != "bob@example.com" {
			t.Errorf("expected bob@example.com, got %s", found.Email)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.GetUserByEmail("nobody@example.com")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")

		_, err = svc.GetUserByID(uuid.New())
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
