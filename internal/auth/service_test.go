package auth

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/arpitmofficial/fest-management-system/config"
)

type fakeRepo struct {
	participants map[string]*Participant
	organizers   map[string]*Organizer
	admins       map[string]*Admin
	nextID       uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		participants: map[string]*Participant{},
		organizers:   map[string]*Organizer{},
		admins:       map[string]*Admin{},
	}
}

func (r *fakeRepo) CreateParticipant(p *Participant) error {
	r.nextID++
	p.ID = r.nextID
	r.participants[p.Email] = p
	return nil
}

func (r *fakeRepo) FindParticipantByEmail(email string) (*Participant, error) {
	if p, ok := r.participants[email]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) FindParticipantByID(id uint) (*Participant, error) {
	for _, p := range r.participants {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) SaveParticipant(p *Participant) error { return nil }

func (r *fakeRepo) FindOrganizerByLoginEmail(email string) (*Organizer, error) {
	if o, ok := r.organizers[email]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) FindOrganizerByID(id uint) (*Organizer, error) {
	for _, o := range r.organizers {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) SaveOrganizer(o *Organizer) error { return nil }

func (r *fakeRepo) FindAdminByEmail(email string) (*Admin, error) {
	if a, ok := r.admins[email]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) FindAdminByID(id uint) (*Admin, error) {
	for _, a := range r.admins {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func testService(repo Repository) Service {
	return NewService(repo, &config.Config{JWTSecret: "test-secret", JWTTTLHours: 1})
}

func TestIsIIITEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"alice@iiit.ac.in", true},
		{"bob@students.iiit.ac.in", true},
		{"carol@research.iiit.ac.in", true},
		{"ALICE@IIIT.AC.IN", true},
		{"mallory@gmail.com", false},
		{"eve@iiit.ac.in.evil.com", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsIIITEmail(tc.email); got != tc.want {
			t.Errorf("IsIIITEmail(%q) = %v, want %v", tc.email, got, tc.want)
		}
	}
}

func TestRegisterParticipant(t *testing.T) {
	base := RegisterInput{
		FirstName:       "Asha",
		LastName:        "Rao",
		Email:           "asha@students.iiit.ac.in",
		Password:        "hunter22",
		ContactNumber:   "9876543210",
		ParticipantType: TypeIIIT,
	}

	t.Run("iiit participant gets forced college", func(t *testing.T) {
		repo := newFakeRepo()
		svc := testService(repo)

		resp, err := svc.RegisterParticipant(base)
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if resp.Token == "" {
			t.Error("register response should carry a token")
		}

		p := repo.participants["asha@students.iiit.ac.in"]
		if p == nil {
			t.Fatal("participant not stored")
		}
		if p.CollegeName != "IIIT Hyderabad" {
			t.Errorf("college = %q, want IIIT Hyderabad", p.CollegeName)
		}
		if p.PasswordHash == base.Password {
			t.Error("password stored in plaintext")
		}
	})

	t.Run("iiit type with outside email rejected", func(t *testing.T) {
		in := base
		in.Email = "asha@gmail.com"
		if _, err := testService(newFakeRepo()).RegisterParticipant(in); err == nil {
			t.Fatal("outside email accepted for IIIT type")
		}
	})

	t.Run("non-iiit requires college name", func(t *testing.T) {
		in := base
		in.Email = "asha@gmail.com"
		in.ParticipantType = TypeNonIIIT
		in.CollegeName = ""
		if _, err := testService(newFakeRepo()).RegisterParticipant(in); err == nil {
			t.Fatal("missing college accepted for Non-IIIT type")
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		repo := newFakeRepo()
		svc := testService(repo)
		if _, err := svc.RegisterParticipant(base); err != nil {
			t.Fatalf("first register: %v", err)
		}
		if _, err := svc.RegisterParticipant(base); err == nil {
			t.Fatal("duplicate email accepted")
		}
	})
}

func TestLoginSharesOneFailureError(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(repo)

	in := RegisterInput{
		FirstName:       "Asha",
		LastName:        "Rao",
		Email:           "asha@students.iiit.ac.in",
		Password:        "hunter22",
		ContactNumber:   "9876543210",
		ParticipantType: TypeIIIT,
	}
	if _, err := svc.RegisterParticipant(in); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, unknownErr := svc.Login(LoginInput{Email: "nobody@students.iiit.ac.in", Password: "x", Role: RoleParticipant})
	_, wrongPassErr := svc.Login(LoginInput{Email: in.Email, Password: "wrong", Role: RoleParticipant})

	if !errors.Is(unknownErr, ErrInvalidCredentials) || !errors.Is(wrongPassErr, ErrInvalidCredentials) {
		t.Fatalf("both failure paths must return ErrInvalidCredentials, got %v and %v", unknownErr, wrongPassErr)
	}
	if unknownErr.Error() != wrongPassErr.Error() {
		t.Fatal("login failure messages must be indistinguishable")
	}

	resp, err := svc.Login(LoginInput{Email: in.Email, Password: "hunter22", Role: RoleParticipant})
	if err != nil {
		t.Fatalf("valid login failed: %v", err)
	}
	if resp.Role != RoleParticipant || resp.Token == "" {
		t.Fatalf("unexpected login response: %+v", resp)
	}
}
