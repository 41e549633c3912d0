package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/apperr"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateDriver(t *testing.T) {
	ctx := context.Background()

	t.Run("forces the verification flag off", func(t *testing.T) {
		_, drivers, _, _, _, _ := newTestRegistries()

		result, err := drivers.Create(ctx, CreateDriverInput{
			Email: "drv@example.com", Name: "Dora Vega", Phone: "555-0001",
			LicenseNumber: "LIC-1", VehiclePlate: "AB-123", VehicleModel: "Corolla", VehicleYear: "2020",
			IsVerified: true, // caller lies; must be ignored
		})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if result.Driver.IsVerified {
			t.Fatal("fresh driver profile must start unverified")
		}
	})

	t.Run("links and tags the backing account", func(t *testing.T) {
		users, drivers, _, userRepo, _, _ := newTestRegistries()

		result, err := drivers.Create(ctx, CreateDriverInput{
			Email: "drv@example.com", Name: "Dora Vega", Phone: "555-0001",
		})
		if err != nil {
			t.Fatal(err)
		}
		if result.ResolutionErr != nil {
			t.Fatalf("unexpected resolution failure: %v", result.ResolutionErr)
		}
		if result.Driver.User == nil {
			t.Fatal("driver has no account link")
		}

		account, err := users.GetUserByEmail(ctx, "drv@example.com")
		if err != nil || account == nil {
			t.Fatalf("backing account missing: %v", err)
		}
		if *result.Driver.User != account.ID {
			t.Fatal("driver links the wrong account")
		}
		if account.Role != models.RoleDriver {
			t.Fatalf("account role not tagged: %q", account.Role)
		}
		if len(userRepo.users) != 1 {
			t.Fatalf("expected 1 account, got %d", len(userRepo.users))
		}
	})

	t.Run("resolves and tags an explicit account id", func(t *testing.T) {
		users, drivers, _, _, _, _ := newTestRegistries()

		account, err := users.Register(ctx, RegisterInput{
			Email: "pre@example.com", Password: "Passw0rd!", ConfirmPassword: "Passw0rd!",
		})
		if err != nil {
			t.Fatal(err)
		}

		result, err := drivers.Create(ctx, CreateDriverInput{
			User: account.ID.Hex(), Email: "drv@example.com", Phone: "555-0001",
		})
		if err != nil {
			t.Fatal(err)
		}
		if result.ResolutionErr != nil {
			t.Fatalf("unexpected resolution failure: %v", result.ResolutionErr)
		}
		if result.Driver.User == nil || *result.Driver.User != account.ID {
			t.Fatal("driver does not link the supplied account")
		}

		refreshed, _ := users.GetUserByEmail(ctx, "pre@example.com")
		if refreshed.Role != models.RoleDriver {
			t.Fatalf("supplied account was not role tagged: %q", refreshed.Role)
		}
	})

	t.Run("degrades when the explicit account id does not resolve", func(t *testing.T) {
		_, drivers, _, _, _, _ := newTestRegistries()

		result, err := drivers.Create(ctx, CreateDriverInput{
			User: primitive.NewObjectID().Hex(), Email: "drv@example.com", Phone: "555-0001",
		})
		if err != nil {
			t.Fatalf("create should degrade, not abort: %v", err)
		}
		if result.Driver.User != nil {
			t.Fatal("driver links an account that does not exist")
		}
		if result.ResolutionErr == nil {
			t.Fatal("resolution failure was not reported")
		}
	})

	t.Run("degrades to no account link when resolution fails", func(t *testing.T) {
		userRepo := &fakeUserRepo{findErr: errors.New("store unavailable")}
		users := NewUserService(userRepo, &fakeMailer{}, &fakeTokenSender{})
		driverRepo := &fakeDriverRepo{}
		drivers := NewDriverService(driverRepo, users)
		passangers := NewPassangerService(&fakePassangerRepo{}, users)
		drivers.SetSibling(passangers)

		result, err := drivers.Create(ctx, CreateDriverInput{
			Email: "drv@example.com", Name: "Dora Vega", Phone: "555-0001",
		})
		if err != nil {
			t.Fatalf("degraded create should still succeed: %v", err)
		}
		if result.Driver.User != nil {
			t.Fatal("driver should have no account link")
		}
		if result.ResolutionErr == nil {
			t.Fatal("resolution failure was not reported")
		}
		if len(driverRepo.drivers) != 1 {
			t.Fatal("profile was not persisted")
		}
	})

	t.Run("aborts on password confirmation mismatch", func(t *testing.T) {
		_, drivers, _, _, driverRepo, _ := newTestRegistries()

		_, err := drivers.Create(ctx, CreateDriverInput{
			Email: "drv@example.com", Phone: "555-0001",
			Password: "Passw0rd!", ConfirmPassword: "other",
		})
		if !apperr.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if len(driverRepo.drivers) != 0 {
			t.Fatal("profile created despite validation failure")
		}
	})

	t.Run("rejects duplicates in its own collection", func(t *testing.T) {
		_, drivers, _, _, _, _ := newTestRegistries()

		if _, err := drivers.Create(ctx, CreateDriverInput{Email: "drv@example.com", Phone: "555-0001"}); err != nil {
			t.Fatal(err)
		}

		_, err := drivers.Create(ctx, CreateDriverInput{Email: "drv@example.com", Phone: "555-0002"})
		var conflict *apperr.ConflictError
		if !errors.As(err, &conflict) || conflict.Field != "email" {
			t.Fatalf("expected email conflict, got %v", err)
		}

		_, err = drivers.Create(ctx, CreateDriverInput{Email: "other@example.com", Phone: "555-0001"})
		if !errors.As(err, &conflict) || conflict.Field != "phone" {
			t.Fatalf("expected phone conflict, got %v", err)
		}
	})
}

func TestCrossRoleExclusivity(t *testing.T) {
	ctx := context.Background()

	t.Run("passanger creation rejects an email registered as driver", func(t *testing.T) {
		users, drivers, passangers, _, _, passangerRepo := newTestRegistries()

		// Register the account up front, then attach a driver profile.
		if _, err := users.Register(ctx, RegisterInput{
			Email: "a@x.com", Password: "Passw0rd!", ConfirmPassword: "Passw0rd!",
		}); err != nil {
			t.Fatal(err)
		}
		if _, err := drivers.Create(ctx, CreateDriverInput{Email: "a@x.com", Phone: "555-0001"}); err != nil {
			t.Fatal(err)
		}

		_, err := passangers.Create(ctx, CreatePassangerInput{Email: "a@x.com", Phone: "555-0099"})
		if !apperr.IsConflict(err) {
			t.Fatalf("expected conflict, got %v", err)
		}
		if len(passangerRepo.passangers) != 0 {
			t.Fatal("passanger profile written despite cross-role conflict")
		}
	})

	t.Run("driver creation rejects a phone registered as passanger", func(t *testing.T) {
		_, drivers, passangers, _, driverRepo, _ := newTestRegistries()

		if _, err := passangers.Create(ctx, CreatePassangerInput{Email: "p@x.com", Phone: "555-0042"}); err != nil {
			t.Fatal(err)
		}

		_, err := drivers.Create(ctx, CreateDriverInput{Email: "d@x.com", Phone: "555-0042"})
		var conflict *apperr.ConflictError
		if !errors.As(err, &conflict) || conflict.Field != "phone" {
			t.Fatalf("expected phone conflict, got %v", err)
		}
		if len(driverRepo.drivers) != 0 {
			t.Fatal("driver profile written despite cross-role conflict")
		}
	})
}

func TestUpdateDriverByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown driver is not found", func(t *testing.T) {
		_, drivers, _, _, _, _ := newTestRegistries()
		_, err := drivers.UpdateByEmail(ctx, "ghost@example.com", UpdateDriverInput{})
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("re-links the account when the email changes", func(t *testing.T) {
		users, drivers, _, _, _, _ := newTestRegistries()

		if _, err := drivers.Create(ctx, CreateDriverInput{Email: "old@example.com", Phone: "555-0001"}); err != nil {
			t.Fatal(err)
		}
		other, err := users.Register(ctx, RegisterInput{Email: "new@example.com", Password: "Passw0rd!"})
		if err != nil {
			t.Fatal(err)
		}

		newEmail := "new@example.com"
		updated, err := drivers.UpdateByEmail(ctx, "old@example.com", UpdateDriverInput{Email: &newEmail})
		if err != nil {
			t.Fatal(err)
		}
		if updated.Email != "new@example.com" {
			t.Fatalf("email not updated: %q", updated.Email)
		}
		if updated.User == nil || *updated.User != other.ID {
			t.Fatal("account link was not re-resolved to the new email")
		}
	})

	t.Run("patches the online flag", func(t *testing.T) {
		_, drivers, _, _, _, _ := newTestRegistries()

		if _, err := drivers.Create(ctx, CreateDriverInput{Email: "drv@example.com", Phone: "555-0001"}); err != nil {
			t.Fatal(err)
		}
		online := true
		if _, err := drivers.UpdateByEmail(ctx, "drv@example.com", UpdateDriverInput{IsOnline: &online}); err != nil {
			t.Fatal(err)
		}

		all, err := drivers.FindAllOnline(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 1 {
			t.Fatalf("expected 1 online driver, got %d", len(all))
		}
	})
}

func TestVerifyDriver(t *testing.T) {
	ctx := context.Background()
	_, drivers, _, _, _, _ := newTestRegistries()

	if _, err := drivers.Create(ctx, CreateDriverInput{Email: "drv@example.com", Phone: "555-0001"}); err != nil {
		t.Fatal(err)
	}

	driver, err := drivers.Verify(ctx, "drv@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if !driver.IsVerified {
		t.Fatal("driver not verified")
	}

	if _, err := drivers.Verify(ctx, "ghost@example.com"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
