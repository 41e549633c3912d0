package services

import (
	"context"
	"errors"

	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/apperr"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories backing the service tests.

type fakeUserRepo struct {
	users       []*models.User
	findErr     error
	updateCalls int
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) Insert(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users = append(r.users, user)
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.updateCalls++
	for i, u := range r.users {
		if u.ID == user.ID {
			r.users[i] = user
			return nil
		}
	}
	return errors.New("user missing")
}

// raceUserRepo simulates a registration racing on the same email: the
// first lookup misses even though the account exists, so the caller
// goes down the create path and hits the conflict.
type raceUserRepo struct {
	fakeUserRepo
	missedOnce bool
}

func (r *raceUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if !r.missedOnce {
		r.missedOnce = true
		return nil, nil
	}
	return r.fakeUserRepo.FindByEmail(ctx, email)
}

// insertRaceUserRepo loses the insert race: every lookup misses until
// an insert was attempted, and the insert itself is rejected the way
// the unique email index rejects the second writer.
type insertRaceUserRepo struct {
	fakeUserRepo
	insertTried bool
}

func (r *insertRaceUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if !r.insertTried {
		return nil, nil
	}
	return r.fakeUserRepo.FindByEmail(ctx, email)
}

func (r *insertRaceUserRepo) Insert(ctx context.Context, user *models.User) error {
	r.insertTried = true
	return apperr.Conflict("email", user.Email)
}

type fakeDriverRepo struct {
	drivers     []*models.Driver
	updateCalls int
}

func (r *fakeDriverRepo) FindByEmail(ctx context.Context, email string) (*models.Driver, error) {
	for _, d := range r.drivers {
		if d.Email == email {
			return d, nil
		}
	}
	return nil, nil
}

func (r *fakeDriverRepo) FindByPhone(ctx context.Context, phone string) (*models.Driver, error) {
	for _, d := range r.drivers {
		if d.Phone == phone {
			return d, nil
		}
	}
	return nil, nil
}

func (r *fakeDriverRepo) FindAll(ctx context.Context) ([]models.Driver, error) {
	out := make([]models.Driver, 0, len(r.drivers))
	for _, d := range r.drivers {
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeDriverRepo) FindAllOnline(ctx context.Context) ([]models.Driver, error) {
	var out []models.Driver
	for _, d := range r.drivers {
		if d.IsOnline {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDriverRepo) Insert(ctx context.Context, driver *models.Driver) error {
	if driver.ID.IsZero() {
		driver.ID = primitive.NewObjectID()
	}
	r.drivers = append(r.drivers, driver)
	return nil
}

func (r *fakeDriverRepo) Update(ctx context.Context, driver *models.Driver) error {
	r.updateCalls++
	for i, d := range r.drivers {
		if d.ID == driver.ID {
			r.drivers[i] = driver
			return nil
		}
	}
	return errors.New("driver missing")
}

type fakePassangerRepo struct {
	passangers []*models.Passanger
}

func (r *fakePassangerRepo) FindByEmail(ctx context.Context, email string) (*models.Passanger, error) {
	for _, p := range r.passangers {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePassangerRepo) FindByPhone(ctx context.Context, phone string) (*models.Passanger, error) {
	for _, p := range r.passangers {
		if p.Phone == phone {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePassangerRepo) FindAll(ctx context.Context) ([]models.Passanger, error) {
	out := make([]models.Passanger, 0, len(r.passangers))
	for _, p := range r.passangers {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePassangerRepo) Insert(ctx context.Context, passanger *models.Passanger) error {
	if passanger.ID.IsZero() {
		passanger.ID = primitive.NewObjectID()
	}
	r.passangers = append(r.passangers, passanger)
	return nil
}

func (r *fakePassangerRepo) Update(ctx context.Context, passanger *models.Passanger) error {
	for i, p := range r.passangers {
		if p.ID == passanger.ID {
			r.passangers[i] = passanger
			return nil
		}
	}
	return errors.New("passanger missing")
}

type fakeRideRepo struct {
	rides []*models.Ride
}

func (r *fakeRideRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	for _, ride := range r.rides {
		if ride.ID == id {
			return ride, nil
		}
	}
	return nil, nil
}

func (r *fakeRideRepo) FindAll(ctx context.Context) ([]models.Ride, error) {
	out := make([]models.Ride, 0, len(r.rides))
	for _, ride := range r.rides {
		out = append(out, *ride)
	}
	return out, nil
}

func (r *fakeRideRepo) FindByPassengerEmail(ctx context.Context, email string) ([]models.Ride, error) {
	var out []models.Ride
	for _, ride := range r.rides {
		if ride.PassengerEmail == email {
			out = append(out, *ride)
		}
	}
	return out, nil
}

func (r *fakeRideRepo) FindByDriverEmail(ctx context.Context, email string) ([]models.Ride, error) {
	var out []models.Ride
	for _, ride := range r.rides {
		if ride.DriverEmail == email {
			out = append(out, *ride)
		}
	}
	return out, nil
}

func (r *fakeRideRepo) Insert(ctx context.Context, ride *models.Ride) error {
	if ride.ID.IsZero() {
		ride.ID = primitive.NewObjectID()
	}
	r.rides = append(r.rides, ride)
	return nil
}

func (r *fakeRideRepo) Update(ctx context.Context, ride *models.Ride) error {
	for i, existing := range r.rides {
		if existing.ID == ride.ID {
			r.rides[i] = ride
			return nil
		}
	}
	return errors.New("ride missing")
}

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) SendVerificationEmail(ctx context.Context, email string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

type fakeTokenSender struct {
	sent   []string
	resent []string
	err    error
}

func (s *fakeTokenSender) SendToken(ctx context.Context, email string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, email)
	return nil
}

func (s *fakeTokenSender) ResendToken(ctx context.Context, email string) error {
	if s.err != nil {
		return s.err
	}
	s.resent = append(s.resent, email)
	return nil
}

// newTestRegistries wires a user service plus both registries with the
// sibling lookups bound, the way main does it.
func newTestRegistries() (*UserService, *DriverService, *PassangerService, *fakeUserRepo, *fakeDriverRepo, *fakePassangerRepo) {
	userRepo := &fakeUserRepo{}
	driverRepo := &fakeDriverRepo{}
	passangerRepo := &fakePassangerRepo{}

	users := NewUserService(userRepo, &fakeMailer{}, &fakeTokenSender{})
	drivers := NewDriverService(driverRepo, users)
	passangers := NewPassangerService(passangerRepo, users)
	drivers.SetSibling(passangers)
	passangers.SetSibling(drivers)

	return users, drivers, passangers, userRepo, driverRepo, passangerRepo
}
