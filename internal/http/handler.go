package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"taller-service/internal/filter"
	"taller-service/internal/http/middleware"
	"taller-service/internal/service"
)

type Handler struct {
	vehicleService *service.VehicleService
	authService    *service.AuthService
	maxUpload      int64
	log            zerolog.Logger
}

func NewHandler(
	vehicleService *service.VehicleService,
	authService *service.AuthService,
	maxUpload int64,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		vehicleService: vehicleService,
		authService:    authService,
		maxUpload:      maxUpload,
		log:            log,
	}
}

func (h *Handler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	r.POST("/auth/login", h.login)

	protected := r.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/me", h.me)

	vehicles := protected.Group("/vehicles")
	{
		vehicles.GET("", h.listVehicles)
		vehicles.GET("/by-plate/:plate", h.findByPlate)
		vehicles.GET("/:ri", h.getVehicle)
		vehicles.GET("/:ri/finalization", h.checkFinalization)
	}

	// Solo administradores
	admin := protected.Group("/")
	admin.Use(middleware.RequireAdmin())
	{
		admin.PATCH("/vehicles/:ri", h.updateVehicle)
		admin.POST("/vehicles/:ri/finalize", h.finalizeVehicle)
		admin.POST("/vehicles/:ri/photo", h.uploadPhoto)
		admin.POST("/photos", h.uploadPhoto)
	}

	protected.POST("/supplies/parse", h.parseSupplies)
	protected.GET("/sync/latest", h.latestSync)
}

func (h *Handler) login(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	result, err := h.authService.Login(req.Email)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) me(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	c.JSON(http.StatusOK, successResponse(principal))
}

func (h *Handler) listVehicles(c *gin.Context) {
	criteria := filter.Criteria{
		Search: strings.TrimSpace(c.Query("search")),
		Estado: strings.TrimSpace(c.Query("estado")),
		Area:   strings.TrimSpace(c.Query("area")),
	}

	result, err := h.vehicleService.List(c.Request.Context(), criteria)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) findByPlate(c *gin.Context) {
	vehicle, err := h.vehicleService.FindByPlate(c.Request.Context(), c.Param("plate"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(vehicle))
}

func (h *Handler) getVehicle(c *gin.Context) {
	ri := strings.TrimSpace(c.Param("ri"))
	if ri == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid ri"))
		return
	}

	detail, err := h.vehicleService.Get(c.Request.Context(), ri)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(detail))
}

func (h *Handler) checkFinalization(c *gin.Context) {
	check, err := h.vehicleService.CheckFinalization(c.Request.Context(), c.Param("ri"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(check))
}

type vehicleUpdateRequest struct {
	Estado     *string `json:"estado"`
	Motivo     *string `json:"motivo"`
	AreaTaller *string `json:"area"`
	FotoURL    *string `json:"fotoUrl"`
	Force      bool    `json:"force"`
}

func (r vehicleUpdateRequest) input() service.UpdateVehicleInput {
	return service.UpdateVehicleInput{
		Estado:     r.Estado,
		Motivo:     r.Motivo,
		AreaTaller: r.AreaTaller,
		FotoURL:    r.FotoURL,
		Force:      r.Force,
	}
}

func (h *Handler) updateVehicle(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req vehicleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	vehicle, err := h.vehicleService.Update(c.Request.Context(), principal, c.Param("ri"), req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(vehicle))
}

func (h *Handler) finalizeVehicle(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req struct {
		Resultado string `json:"resultado" binding:"required"`
		Nota      string `json:"nota"`
		vehicleUpdateRequest
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	result, err := h.vehicleService.Finalize(c.Request.Context(), principal, c.Param("ri"), service.FinalizeInput{
		Resultado: req.Resultado,
		Nota:      req.Nota,
		Updates:   req.input(),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) uploadPhoto(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("file is required"))
		return
	}
	if h.maxUpload > 0 && fileHeader.Size > h.maxUpload {
		c.JSON(http.StatusRequestEntityTooLarge, errorResponse("file too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("cannot read file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("cannot read file"))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	result, err := h.vehicleService.UploadPhoto(c.Request.Context(), principal, service.UploadPhotoInput{
		RI:          c.Param("ri"),
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Data:        data,
		Force:       c.PostForm("force") == "true",
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(result))
}

func (h *Handler) parseSupplies(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	records, decision := h.vehicleService.EvaluateSupplies(req.Text)
	c.JSON(http.StatusOK, successResponse(gin.H{
		"supplies":     records,
		"finalization": decision,
	}))
}

func (h *Handler) latestSync(c *gin.Context) {
	run, err := h.vehicleService.LatestSync(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(run))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNoteRequired), errors.Is(err, service.ErrGatewayRejected):
		c.JSON(http.StatusUnprocessableEntity, errorResponse(err.Error()))
	case errors.Is(err, service.ErrGatewayUnavailable):
		h.log.Warn().Err(err).Str("req_id", middleware.GetRequestID(c)).Msg("gateway unavailable")
		c.JSON(http.StatusBadGateway, errorResponse("spreadsheet unavailable"))
	default:
		h.log.Error().Err(err).Str("req_id", middleware.GetRequestID(c)).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{
		"data": data,
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}
