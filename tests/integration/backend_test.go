package integration_test

import (
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/Kiriweb/carbontracker/internal/dto"
)

const (
	backendSecret = "integration-secret"
	adminEmail    = "admin@carbontracker.com"
	adminPassword = "admin-secret"
)

// account is a backend-side user record, password included.
type account struct {
	dto.User
	Password string
}

// backend is an in-memory stand-in for the carbon-tracker server. It speaks
// the same routes, cookie and body shapes the real one does, so the client
// can be driven end to end without a database.
type backend struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*account
	logs   []dto.EmissionLog
	aiKey  string
}

func newBackend() *backend {
	b := &backend{
		nextID: 1,
		users:  map[int64]*account{},
	}
	b.createUser(adminEmail, adminPassword, true)
	return b
}

func (b *backend) createUser(email, password string, enabled bool) *account {
	b.mu.Lock()
	defer b.mu.Unlock()
	acct := &account{
		User:     dto.User{ID: b.nextID, Email: email, Enabled: enabled},
		Password: password,
	}
	b.users[acct.ID] = acct
	b.nextID++
	return acct
}

func (b *backend) findByEmail(email string) *account {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, acct := range b.users {
		if strings.EqualFold(acct.Email, email) {
			return acct
		}
	}
	return nil
}

func (b *backend) issueToken(acct *account) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": acct.Email,
		"uid": acct.ID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(backendSecret))
}

// currentUser resolves the session cookie back to an account.
func (b *backend) currentUser(c *fiber.Ctx) *account {
	raw := c.Cookies("jwt")
	if raw == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(_ *jwt.Token) (any, error) {
		return []byte(backendSecret), nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	uid, ok := claims["uid"].(float64)
	if !ok {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.users[int64(uid)]
}

func (b *backend) app() *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Post("/api/users/register", func(c *fiber.Ctx) error {
		var creds dto.Credentials
		if err := c.BodyParser(&creds); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
		}
		if b.findByEmail(creds.Email) != nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "email already registered"})
		}
		acct := b.createUser(creds.Email, creds.Password, false)
		return c.Status(fiber.StatusCreated).JSON(acct.User)
	})

	app.Post("/api/users/login", func(c *fiber.Ctx) error {
		var creds dto.Credentials
		if err := c.BodyParser(&creds); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
		}
		acct := b.findByEmail(creds.Email)
		if acct == nil || acct.Password != creds.Password {
			return c.Status(fiber.StatusUnauthorized).SendString("Invalid credentials")
		}
		if !acct.Enabled {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "account pending approval"})
		}
		token, err := b.issueToken(acct)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "token signing failed"})
		}
		c.Cookie(&fiber.Cookie{Name: "jwt", Value: token, HTTPOnly: true})
		return c.JSON(acct.User)
	})

	// Everything below requires a session.
	authed := app.Group("/api", func(c *fiber.Ctx) error {
		acct := b.currentUser(c)
		if acct == nil {
			return c.Status(fiber.StatusUnauthorized).SendString("Invalid credentials")
		}
		c.Locals("account", acct)
		return c.Next()
	})

	adminOnly := func(c *fiber.Ctx) error {
		acct := c.Locals("account").(*account)
		if !strings.EqualFold(acct.Email, adminEmail) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin access required"})
		}
		return c.Next()
	}

	authed.Get("/users/me", func(c *fiber.Ctx) error {
		return c.JSON(c.Locals("account").(*account).User)
	})

	authed.Get("/users/pending", adminOnly, func(c *fiber.Ctx) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		pending := []dto.User{}
		for _, acct := range b.users {
			if !acct.Enabled {
				pending = append(pending, acct.User)
			}
		}
		return c.JSON(pending)
	})

	authed.Get("/users", adminOnly, func(c *fiber.Ctx) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		all := []dto.User{}
		for _, acct := range b.users {
			all = append(all, acct.User)
		}
		return c.JSON(all)
	})

	authed.Put("/users/:id/approve", adminOnly, func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		acct, ok := b.users[int64(id)]
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user not found"})
		}
		acct.Enabled = true
		return c.JSON(acct.User)
	})

	authed.Delete("/users/:id", adminOnly, func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.users, int64(id))
		return c.SendStatus(fiber.StatusNoContent)
	})

	authed.Get("/factors/vehicles", func(c *fiber.Ctx) error {
		return c.JSON([]string{"car_petrol", "car_diesel", "average_car_petrol"})
	})
	authed.Get("/factors/electricity-countries", func(c *fiber.Ctx) error {
		return c.JSON([]string{"Greece", "Germany", "France"})
	})
	authed.Get("/factors/waste", func(c *fiber.Ctx) error {
		return c.JSON(map[string][]string{
			"wood":   {"composting", "landfill"},
			"metals": {"open_loop", "closed_loop"},
		})
	})
	authed.Get("/factors/fuels", func(c *fiber.Ctx) error {
		return c.JSON([]string{"diesel_litre", "natural_gas_kwh"})
	})

	authed.Get("/logs", func(c *fiber.Ctx) error {
		acct := c.Locals("account").(*account)
		b.mu.Lock()
		defer b.mu.Unlock()
		mine := []dto.EmissionLog{}
		for i := len(b.logs) - 1; i >= 0; i-- {
			if b.logs[i].UserID == acct.ID {
				mine = append(mine, b.logs[i])
			}
		}
		return c.JSON(mine)
	})

	authed.Post("/emission-logs/quick", func(c *fiber.Ctx) error {
		acct := c.Locals("account").(*account)
		var req dto.QuickEntryRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
		}

		var amount float64
		var description string
		switch req.Category {
		case "vehicle trip":
			amount = deref(req.DistanceKm)
			description = fmt.Sprintf("%s (%s), %.1f km", req.VehicleType, req.VehicleFuel, amount)
		case "electricity use":
			amount = deref(req.Kwh)
			description = fmt.Sprintf("%s grid, %.1f kWh", req.ElectricityCountry, amount)
		case "waste disposal":
			amount = deref(req.WasteKg)
			description = fmt.Sprintf("%s via %s, %.1f kg", req.WasteType, req.WasteMethod, amount)
		case "fuel combustion":
			amount = deref(req.FuelQuantity)
			description = fmt.Sprintf("%s, %.1f %s", req.FuelType, amount, req.FuelUnit)
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unknown category"})
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		log := dto.EmissionLog{
			ID:               int64(len(b.logs) + 1),
			Category:         req.Category,
			Description:      description,
			TotalEmissionsKg: dto.ParseDecimal(fmt.Sprintf("%.3f", amount*0.41)),
			CreatedAt:        time.Now().UTC().Format(time.RFC3339),
			UserID:           acct.ID,
		}
		b.logs = append(b.logs, log)
		return c.Status(fiber.StatusCreated).JSON(log)
	})

	authed.Get("/ai/suggestions/:logId", func(c *fiber.Ctx) error {
		b.mu.Lock()
		hasKey := b.aiKey != ""
		b.mu.Unlock()
		if !hasKey {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "AI key not configured"})
		}
		return c.SendString("Consider lower-carbon alternatives for this activity.")
	})

	authed.Get("/ai/key", adminOnly, func(c *fiber.Ctx) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		status := dto.CredentialStatus{HasKey: b.aiKey != ""}
		if status.HasKey {
			status.Masked = maskKey(b.aiKey)
		}
		return c.JSON(status)
	})

	authed.Put("/ai/key", adminOnly, func(c *fiber.Ctx) error {
		var req dto.CredentialUpdateRequest
		if err := c.BodyParser(&req); err != nil || req.APIKey == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "api key required"})
		}
		b.mu.Lock()
		b.aiKey = req.APIKey
		b.mu.Unlock()
		return c.SendStatus(fiber.StatusNoContent)
	})

	authed.Delete("/ai/key", adminOnly, func(c *fiber.Ctx) error {
		b.mu.Lock()
		b.aiKey = ""
		b.mu.Unlock()
		return c.SendStatus(fiber.StatusNoContent)
	})

	return app
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:3] + strings.Repeat("*", 5) + key[len(key)-2:]
}

// startBackend serves the stub on a loopback port and returns its base URL.
func startBackend(t *testing.T) string {
	t.Helper()

	app := newBackend().app()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		_ = app.Listener(ln)
	}()
	t.Cleanup(func() {
		_ = app.Shutdown()
	})

	return "http://" + ln.Addr().String()
}
