package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/identity"
)

// Server exposes the authentication HTTP surface: signup, login, and a
// token-protected content route.
type Server struct {
	cfg    *Config
	app    *fiber.App
	creds  *identity.Service
	tokens auth.TokenService
	logger auth.Logger
}

// New wires the fiber app and its routes.
func New(cfg *Config, creds *identity.Service, tokens auth.TokenService) *Server {
	s := &Server{
		cfg:    cfg,
		creds:  creds,
		tokens: tokens,
		logger: auth.DefaultLogger(),
	}

	app := fiber.New(fiber.Config{
		AppName:               "inkpost",
		DisableStartupMessage: !cfg.Debug,
	})

	app.Post("/user/signup", s.SignupPost)
	app.Post("/user/login", s.LoginPost)
	app.Get("/posts", Protected(tokens, s.logger), s.PostsGet)

	s.app = app
	return s
}

func (s *Server) WithLogger(logger auth.Logger) *Server {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until the listener fails.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Address)
}

// SignupRequest is the registration payload.
type SignupRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Username string `json:"username" form:"username"`
}

// SignupResponse carries the freshly minted session token.
type SignupResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (s *Server) SignupPost(c *fiber.Ctx) error {
	payload := new(SignupRequest)
	if err := c.BodyParser(payload); err != nil {
		s.logger.Error("signup parse payload: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse request body",
		})
	}

	user, err := s.creds.Register(c.Context(), payload.Email, payload.Username, payload.Password)
	if err != nil {
		return s.writeError(c, err)
	}

	token, err := s.tokens.Generate(user.ID.String(), user.Username)
	if err != nil {
		s.logger.Error("signup token generation: %v", err)
		return s.writeError(c, err)
	}

	resp := SignupResponse{Token: token, Username: user.Username, Email: user.Email}

	if s.cfg.Debug {
		fmt.Println(print.MaybePrettyJSON(resp))
	}

	return c.JSON(resp)
}

// LoginRequest is the authentication payload.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginResponse carries the session token for an existing identity.
type LoginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

func (s *Server) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)
	if err := c.BodyParser(payload); err != nil {
		s.logger.Error("login parse payload: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse request body",
		})
	}

	user, err := s.creds.Authenticate(c.Context(), payload.Email, payload.Password)
	if err != nil {
		return s.writeError(c, err)
	}

	token, err := s.tokens.Generate(user.ID.String(), user.Username)
	if err != nil {
		s.logger.Error("login token generation: %v", err)
		return s.writeError(c, err)
	}

	return c.JSON(LoginResponse{Token: token, Email: user.Email})
}

// PostsResponse is the protected content payload. Post creation is out of
// scope, so the feed only proves the caller's claims made it through
// verification.
type PostsResponse struct {
	Username string   `json:"username"`
	Posts    []string `json:"posts"`
}

func (s *Server) PostsGet(c *fiber.Ctx) error {
	claims, err := ClaimsFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": errorMessage(err),
		})
	}

	return c.JSON(PostsResponse{
		Username: claims.Username,
		Posts:    []string{},
	})
}

func (s *Server) writeError(c *fiber.Ctx, err error) error {
	return c.Status(auth.HTTPStatus(err)).JSON(fiber.Map{
		"error": errorMessage(err),
	})
}

// errorMessage keeps infrastructure faults generic while letting
// client-correctable domain errors through verbatim.
func errorMessage(err error) string {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return "internal error"
	}

	switch rich.Category {
	case goerrors.CategoryInternal, goerrors.CategoryOperation:
		return "internal error"
	default:
		return rich.Message
	}
}
