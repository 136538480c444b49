package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/arpitmofficial/fest-management-system/config"
)

// ErrInvalidCredentials is deliberately shared between the unknown-identity
// and wrong-password paths so the login response does not reveal which
// accounts exist.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Email domains accepted for IIIT participants.
var iiitDomains = []string{"@iiit.ac.in", "@students.iiit.ac.in", "@research.iiit.ac.in"}

const iiitCollegeName = "IIIT Hyderabad"

type Service interface {
	RegisterParticipant(in RegisterInput) (*AuthResponse, error)
	Login(in LoginInput) (*AuthResponse, error)
	ResolvePrincipal(role string, id uint) (*Principal, error)
	GenerateToken(id uint, role string) (string, error)
}

type service struct {
	repo   Repository
	secret string
	ttl    time.Duration
}

func NewService(r Repository, cfg *config.Config) Service {
	return &service{
		repo:   r,
		secret: cfg.JWTSecret,
		ttl:    time.Duration(cfg.JWTTTLHours) * time.Hour,
	}
}

type RegisterInput struct {
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	ContactNumber   string   `json:"contactNumber"`
	ParticipantType string   `json:"participantType"`
	CollegeName     string   `json:"collegeName"`
	Interests       []string `json:"interests"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AuthResponse is what both register and login hand back to the client.
type AuthResponse struct {
	ID            uint   `json:"id"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	FirstName     string `json:"firstName,omitempty"`
	OrganizerName string `json:"organizerName,omitempty"`
	Token         string `json:"token"`
}

func IsIIITEmail(email string) bool {
	lower := strings.ToLower(email)
	for _, d := range iiitDomains {
		if strings.HasSuffix(lower, d) {
			return true
		}
	}
	return false
}

func (s *service) RegisterParticipant(in RegisterInput) (*AuthResponse, error) {
	if in.FirstName == "" || in.LastName == "" || in.Email == "" ||
		in.Password == "" || in.ContactNumber == "" || in.ParticipantType == "" {
		return nil, errors.New("please fill in all required fields")
	}

	if in.ParticipantType != TypeIIIT && in.ParticipantType != TypeNonIIIT {
		return nil, errors.New("participant type must be IIIT or Non-IIIT")
	}

	if in.ParticipantType == TypeIIIT && !IsIIITEmail(in.Email) {
		return nil, errors.New("use a valid IIIT email for IIIT participants")
	}

	if in.ParticipantType == TypeNonIIIT && in.CollegeName == "" {
		return nil, errors.New("college name is required for Non-IIIT participants")
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if existing, _ := s.repo.FindParticipantByEmail(email); existing != nil {
		return nil, errors.New("user already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	college := in.CollegeName
	if in.ParticipantType == TypeIIIT {
		college = iiitCollegeName
	}

	p := &Participant{
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Email:           email,
		ContactNumber:   in.ContactNumber,
		PasswordHash:    string(hash),
		ParticipantType: in.ParticipantType,
		CollegeName:     college,
		Interests:       in.Interests,
	}

	if err := s.repo.CreateParticipant(p); err != nil {
		return nil, err
	}

	token, err := s.GenerateToken(p.ID, RoleParticipant)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		ID:        p.ID,
		Email:     p.Email,
		Role:      RoleParticipant,
		FirstName: p.FirstName,
		Token:     token,
	}, nil
}

func (s *service) Login(in LoginInput) (*AuthResponse, error) {
	if in.Role == "" {
		return nil, errors.New("please select a role (participant/organizer/admin)")
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	var (
		id            uint
		hash          string
		firstName     string
		organizerName string
	)

	switch in.Role {
	case RoleAdmin:
		a, err := s.repo.FindAdminByEmail(email)
		if err != nil {
			return nil, ErrInvalidCredentials
		}
		id, hash = a.ID, a.PasswordHash
	case RoleOrganizer:
		o, err := s.repo.FindOrganizerByLoginEmail(email)
		if err != nil {
			return nil, ErrInvalidCredentials
		}
		id, hash, organizerName = o.ID, o.PasswordHash, o.OrganizerName
	case RoleParticipant:
		p, err := s.repo.FindParticipantByEmail(email)
		if err != nil {
			return nil, ErrInvalidCredentials
		}
		id, hash, firstName = p.ID, p.PasswordHash, p.FirstName
	default:
		return nil, errors.New("unknown role")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.GenerateToken(id, in.Role)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		ID:            id,
		Email:         email,
		Role:          in.Role,
		FirstName:     firstName,
		OrganizerName: organizerName,
		Token:         token,
	}, nil
}

// ResolvePrincipal loads the principal named by a verified token claim.
// A missing record means the account was deleted after the token was
// issued and the caller must be rejected.
func (s *service) ResolvePrincipal(role string, id uint) (*Principal, error) {
	switch role {
	case RoleAdmin:
		a, err := s.repo.FindAdminByID(id)
		if err != nil {
			return nil, err
		}
		return &Principal{Role: RoleAdmin, Admin: a}, nil
	case RoleOrganizer:
		o, err := s.repo.FindOrganizerByID(id)
		if err != nil {
			return nil, err
		}
		return &Principal{Role: RoleOrganizer, Organizer: o}, nil
	case RoleParticipant:
		p, err := s.repo.FindParticipantByID(id)
		if err != nil {
			return nil, err
		}
		return &Principal{Role: RoleParticipant, Participant: p}, nil
	}
	return nil, errors.New("unknown role")
}

func (s *service) GenerateToken(id uint, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": id,
		"role":    role,
		"exp":     time.Now().Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}
