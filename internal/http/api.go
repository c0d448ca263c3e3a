package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"cbt-server/internal/auth"
	"cbt-server/internal/domain"
	"cbt-server/internal/repository"
	"cbt-server/internal/repository/mongodb"
	"cbt-server/internal/service"
	"cbt-server/internal/token"
	"cbt-server/internal/validation"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	exams     service.ExamService
	questions service.QuestionService
	results   service.ResultService
	tokens    *token.Service
	admin     *auth.BootstrapAdmin
	healthFn  func() mongodb.Health
	limiter   *RateLimiter
	env       string
	logger    *logrus.Logger
}

func NewHandler(
	users service.UserService,
	exams service.ExamService,
	questions service.QuestionService,
	results service.ResultService,
	tokens *token.Service,
	admin *auth.BootstrapAdmin,
	healthFn func() mongodb.Health,
	limiter *RateLimiter,
	env string,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		users:     users,
		exams:     exams,
		questions: questions,
		results:   results,
		tokens:    tokens,
		admin:     admin,
		healthFn:  healthFn,
		limiter:   limiter,
		env:       env,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(securityHeaders())
	router.Use(botFilter())
	if h.limiter != nil {
		router.Use(h.limiter.Middleware())
	}

	router.GET("/health", h.healthCheck)

	api := router.Group("/api")
	{
		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)
		api.POST("/admin/login", h.adminLogin)

		protected := api.Group("", auth.RequireAuth(h.tokens))
		{
			protected.GET("/exams", h.listExams)
			protected.POST("/exams", h.createExam)
			protected.GET("/exams/:id", h.getExam)
			protected.PUT("/exams/:id", h.updateExam)
			protected.DELETE("/exams/:id", h.deleteExam)

			protected.GET("/questions", h.listQuestions)
			protected.POST("/questions", h.createQuestion)
			protected.GET("/questions/:id", h.getQuestion)
			protected.PUT("/questions/:id", h.updateQuestion)
			protected.DELETE("/questions/:id", h.deleteQuestion)

			protected.GET("/results", h.listResults)
			protected.POST("/results", h.createResult)
			protected.GET("/results/:id", h.getResult)
			protected.PUT("/results/:id", h.updateResult)

			protected.GET("/users", h.listUsers)
			protected.GET("/users/:id", h.getUser)
			protected.PUT("/users/:id", h.updateUser)
			protected.DELETE("/users/:id", h.deleteUser)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})
}

func (h *Handler) healthCheck(c *gin.Context) {
	db := h.healthFn()
	status := "healthy"
	code := http.StatusOK
	if !db.Connected {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":      status,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"database":    db,
		"environment": h.env,
	})
}

// bindAndValidate decodes the JSON body, runs the rule set and, when every
// rule passes, sanitizes the body in place. A false return means the response
// has already been written.
func (h *Handler) bindAndValidate(c *gin.Context, rules *validation.RuleSet) (map[string]any, bool) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return nil, false
	}

	if res := rules.Validate(body); !res.OK() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  res.Errors,
		})
		return nil, false
	}

	rules.Sanitize(body)
	return body, true
}

// bindLoose decodes the JSON body of an update route and sanitizes it with
// the heuristic field policies; updates carry no static rule set.
func (h *Handler) bindLoose(c *gin.Context) (map[string]any, bool) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return nil, false
	}
	for key, value := range body {
		if s, ok := value.(string); ok {
			body[key] = validation.SanitizeValue(key, s)
		}
	}
	return body, true
}

// pageQuery validates the optional page/limit query values on a list route.
// A zero limit means the route returns everything, preserving the default
// when neither value is supplied.
func pageQuery(c *gin.Context) (page, limit int, ok bool) {
	query := map[string]any{}
	for _, key := range []string{"page", "limit"} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		if n, err := strconv.Atoi(raw); err == nil {
			query[key] = n
		} else {
			query[key] = raw
		}
	}

	if res := validation.Pagination.Validate(query); !res.OK() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  res.Errors,
		})
		return 0, 0, false
	}

	page = 1
	if n, isInt := query["page"].(int); isInt {
		page = n
	}
	if n, isInt := query["limit"].(int); isInt {
		limit = n
	}
	return page, limit, true
}

// pageOf slices one page out of items; a zero limit disables slicing.
func pageOf[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return items[:0]
	}
	if end := start + limit; end < len(items) {
		return items[start:end]
	}
	return items[start:]
}

func idParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !validation.ValidateID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return "", false
	}
	return id, true
}

func (h *Handler) storeError(c *gin.Context, err error, op, clientMsg string) {
	h.logger.Errorf("%s: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": clientMsg})
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func boolField(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func arrayField(m map[string]any, key string) []any {
	a, _ := m[key].([]any)
	return a
}

// ----- auth -----

func (h *Handler) register(c *gin.Context) {
	body, ok := h.bindAndValidate(c, &validation.UserRegistration)
	if !ok {
		return
	}

	user, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Username:   stringField(body, "username"),
		Email:      stringField(body, "email"),
		Password:   stringField(body, "password"),
		FullName:   stringField(body, "fullName"),
		Phone:      stringField(body, "phone"),
		TenantSlug: stringField(body, "tenant_slug"),
		Role:       domain.Role(stringField(body, "role")),
	})
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email or username already exists"})
			return
		}
		h.storeError(c, err, "register user", "Registration failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user": gin.H{
			"id":       user.ID.Hex(),
			"username": user.Username,
			"email":    user.Email,
			"fullName": user.FullName,
			"role":     user.Role,
		},
	})
}

func (h *Handler) login(c *gin.Context) {
	body, ok := h.bindAndValidate(c, &validation.UserLogin)
	if !ok {
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), stringField(body, "username"), stringField(body, "password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		h.storeError(c, err, "login user", "Login failed")
		return
	}

	access, refresh, err := h.tokens.IssuePair(token.Identity{
		UserID:   user.ID.Hex(),
		Username: user.Username,
		Role:     string(user.Role),
		Kind:     "user",
	})
	if err != nil {
		h.storeError(c, err, "issue tokens", "Login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Login successful",
		"token":        access,
		"refreshToken": refresh,
		"expiresIn":    h.tokens.AccessTTL().Milliseconds(),
		"user": gin.H{
			"id":               user.ID.Hex(),
			"username":         user.Username,
			"email":            user.Email,
			"fullName":         user.FullName,
			"role":             user.Role,
			"is_default_admin": user.IsDefaultAdmin,
		},
	})
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// adminLogin is the bootstrap-admin issuance path. It never consults the
// document store and issues the same kind of token as per-user login.
func (h *Handler) adminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	if !h.admin.Authenticate(req.Username, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	access, refresh, err := h.tokens.IssuePair(token.Identity{
		UserID:   h.admin.Username(),
		Username: h.admin.Username(),
		Role:     string(domain.RoleSuperAdmin),
		Kind:     "multi_tenant_admin",
	})
	if err != nil {
		h.storeError(c, err, "issue admin tokens", "Login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Login successful",
		"token":        access,
		"refreshToken": refresh,
		"expiresIn":    h.tokens.AccessTTL().Milliseconds(),
		"user": gin.H{
			"username": h.admin.Username(),
			"role":     domain.RoleSuperAdmin,
		},
	})
}

// ----- exams -----

func (h *Handler) listExams(c *gin.Context) {
	page, limit, ok := pageQuery(c)
	if !ok {
		return
	}

	exams, err := h.exams.List(c.Request.Context())
	if err != nil {
		h.storeError(c, err, "list exams", "Failed to fetch exams")
		return
	}
	c.JSON(http.StatusOK, pageOf(exams, page, limit))
}

func (h *Handler) createExam(c *gin.Context) {
	body, ok := h.bindAndValidate(c, &validation.ExamCreation)
	if !ok {
		return
	}

	exam := &domain.Exam{
		Title:       stringField(body, "title"),
		Description: stringField(body, "description"),
		Type:        stringField(body, "type"),
		Duration:    intField(body, "duration"),
		IsActive:    boolField(body, "isActive"),
		Questions:   arrayField(body, "questions"),
	}
	if claims, ok := auth.ClaimsFrom(c); ok {
		exam.CreatedBy = claims.Subject
	}

	exam, err := h.exams.Create(c.Request.Context(), exam)
	if err != nil {
		h.storeError(c, err, "create exam", "Failed to create exam")
		return
	}
	c.JSON(http.StatusCreated, exam)
}

func (h *Handler) getExam(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	exam, err := h.exams.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exam not found"})
			return
		}
		h.storeError(c, err, "get exam", "Failed to fetch exam")
		return
	}
	c.JSON(http.StatusOK, exam)
}

func (h *Handler) updateExam(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	body, ok := h.bindLoose(c)
	if !ok {
		return
	}

	exam, err := h.exams.Update(c.Request.Context(), id, body)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exam not found"})
			return
		}
		h.storeError(c, err, "update exam", "Failed to update exam")
		return
	}
	c.JSON(http.StatusOK, exam)
}

func (h *Handler) deleteExam(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.exams.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exam not found"})
			return
		}
		h.storeError(c, err, "delete exam", "Failed to delete exam")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exam deleted successfully"})
}

// ----- questions -----

func (h *Handler) listQuestions(c *gin.Context) {
	page, limit, ok := pageQuery(c)
	if !ok {
		return
	}

	questions, err := h.questions.List(c.Request.Context())
	if err != nil {
		h.storeError(c, err, "list questions", "Failed to fetch questions")
		return
	}
	c.JSON(http.StatusOK, pageOf(questions, page, limit))
}

func (h *Handler) createQuestion(c *gin.Context) {
	body, ok := h.bindAndValidate(c, &validation.QuestionCreation)
	if !ok {
		return
	}

	options := make([]string, 0)
	for _, opt := range arrayField(body, "options") {
		if s, ok := opt.(string); ok {
			options = append(options, s)
		}
	}

	question := &domain.Question{
		ExamID:        stringField(body, "examId"),
		Text:          stringField(body, "text"),
		Options:       options,
		CorrectAnswer: intField(body, "correctAnswer"),
	}

	question, err := h.questions.Create(c.Request.Context(), question)
	if err != nil {
		h.storeError(c, err, "create question", "Failed to create question")
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *Handler) getQuestion(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	question, err := h.questions.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
			return
		}
		h.storeError(c, err, "get question", "Failed to fetch question")
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *Handler) updateQuestion(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	body, ok := h.bindLoose(c)
	if !ok {
		return
	}

	question, err := h.questions.Update(c.Request.Context(), id, body)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
			return
		}
		h.storeError(c, err, "update question", "Failed to update question")
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *Handler) deleteQuestion(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.questions.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
			return
		}
		h.storeError(c, err, "delete question", "Failed to delete question")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

// ----- results -----

func (h *Handler) listResults(c *gin.Context) {
	page, limit, ok := pageQuery(c)
	if !ok {
		return
	}

	results, err := h.results.List(c.Request.Context())
	if err != nil {
		h.storeError(c, err, "list results", "Failed to fetch results")
		return
	}
	c.JSON(http.StatusOK, pageOf(results, page, limit))
}

func (h *Handler) createResult(c *gin.Context) {
	body, ok := h.bindLoose(c)
	if !ok {
		return
	}

	result := &domain.Result{
		Username:       stringField(body, "username"),
		UserID:         stringField(body, "userId"),
		ExamID:         stringField(body, "examId"),
		ExamTitle:      stringField(body, "examTitle"),
		Score:          floatField(body, "score"),
		Total:          floatField(body, "total"),
		Percent:        floatField(body, "percent"),
		TotalQuestions: intField(body, "totalQuestions"),
		CorrectAnswers: intField(body, "correctAnswers"),
		TimeTaken:      intField(body, "timeTaken"),
		Answers:        arrayField(body, "answers"),
		QuestionOrder:  arrayField(body, "questionOrder"),
	}

	result, err := h.results.Create(c.Request.Context(), result)
	if err != nil {
		h.storeError(c, err, "create result", "Failed to create result")
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) getResult(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	result, err := h.results.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Result not found"})
			return
		}
		h.storeError(c, err, "get result", "Failed to fetch result")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) updateResult(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	body, ok := h.bindLoose(c)
	if !ok {
		return
	}

	result, err := h.results.Update(c.Request.Context(), id, body)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Result not found"})
			return
		}
		h.storeError(c, err, "update result", "Failed to update result")
		return
	}
	c.JSON(http.StatusOK, result)
}

// ----- users -----

func (h *Handler) listUsers(c *gin.Context) {
	page, limit, ok := pageQuery(c)
	if !ok {
		return
	}

	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.storeError(c, err, "list users", "Failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, pageOf(users, page, limit))
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.storeError(c, err, "get user", "Failed to fetch user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) updateUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	body, ok := h.bindLoose(c)
	if !ok {
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, body)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.storeError(c, err, "update user", "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.storeError(c, err, "delete user", "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func floatField(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}
