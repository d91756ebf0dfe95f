package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultIssuer     = "todo-planner"
	DefaultCookieName = "todo_session"

	identityKey = "session_identity"
	flashMaxAge = 60
)

// Flash categories understood by the page templates.
const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

var ErrInvalidToken = errors.New("invalid session token")

// Identity is the signed-in user carried by a request.
type Identity struct {
	UserID   uuid.UUID
	UserName string
}

type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type Options struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
	Issuer     string
}

type claims struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	jwt.RegisteredClaims
}

// Manager issues and reads the session and flash cookies.
type Manager struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
	issuer     string
	now        func() time.Time
}

func NewManager(opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.Issuer == "" {
		opts.Issuer = DefaultIssuer
	}

	return &Manager{
		secret:     []byte(opts.Secret),
		cookieName: opts.CookieName,
		ttl:        opts.TTL,
		secure:     opts.Secure,
		issuer:     opts.Issuer,
		now:        time.Now,
	}
}

func (m *Manager) CookieName() string {
	return m.cookieName
}

func (m *Manager) flashCookieName() string {
	return m.cookieName + "_flash"
}

// Issue signs a token for the identity that expires after the configured TTL.
func (m *Manager) Issue(id Identity) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID:   id.UserID.String(),
		UserName: id.UserName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse validates signature, issuer and expiry and returns the identity.
func (m *Manager) Parse(tokenStr string) (Identity, error) {
	parsed := &claims{}
	_, err := jwt.ParseWithClaims(tokenStr, parsed, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := uuid.FromString(parsed.UserID)
	if err != nil || userID == uuid.Nil || parsed.UserName == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{UserID: userID, UserName: parsed.UserName}, nil
}

// Start writes the session cookie for the identity.
func (m *Manager) Start(c *gin.Context, id Identity) error {
	token, err := m.Issue(id)
	if err != nil {
		return err
	}
	m.setCookie(c, m.cookieName, token, int(m.ttl.Seconds()))
	return nil
}

// Load reads the identity from the request cookie. Missing, expired and
// tampered cookies all read as anonymous.
func (m *Manager) Load(c *gin.Context) (Identity, bool) {
	token, err := c.Cookie(m.cookieName)
	if err != nil || token == "" {
		return Identity{}, false
	}

	id, err := m.Parse(token)
	if err != nil {
		return Identity{}, false
	}
	return id, true
}

// Clear ends the session and drops any notice that was not shown yet.
func (m *Manager) Clear(c *gin.Context) {
	m.setCookie(c, m.cookieName, "", -1)
	m.setCookie(c, m.flashCookieName(), "", -1)
}

// SetFlash stores a notice to be shown by the next rendered page.
func (m *Manager) SetFlash(c *gin.Context, category, message string) {
	raw, err := json.Marshal(Flash{Category: category, Message: message})
	if err != nil {
		return
	}
	m.setCookie(c, m.flashCookieName(), base64.RawURLEncoding.EncodeToString(raw), flashMaxAge)
}

// PopFlash returns the pending notice, if any, and clears it.
func (m *Manager) PopFlash(c *gin.Context) (Flash, bool) {
	value, err := c.Cookie(m.flashCookieName())
	if err != nil || value == "" {
		return Flash{}, false
	}
	m.setCookie(c, m.flashCookieName(), "", -1)

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return Flash{}, false
	}

	var flash Flash
	if err := json.Unmarshal(raw, &flash); err != nil || flash.Message == "" {
		return Flash{}, false
	}
	return flash, true
}

func (m *Manager) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", m.secure, true)
}

func WithIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
}

func FromContext(c *gin.Context) (Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}
	id, ok := value.(Identity)
	return id, ok
}
