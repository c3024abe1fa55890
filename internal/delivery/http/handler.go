package http

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/roomstyler/backend/internal/domain"
	"github.com/roomstyler/backend/internal/usecase"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Services holds the use cases served over HTTP
type Services struct {
	Searcher domain.ProductSearcher
	Matcher  *usecase.MatchingService
	Pipeline *usecase.PipelineService
	Design   *usecase.DesignService
	Gallery  *usecase.GalleryService
}

// HandlerConfig holds per-route result caps and defaults
type HandlerConfig struct {
	SimpleLimit   int
	EnrichedLimit int
	DefaultBudget float64
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	services Services
	config   HandlerConfig
}

// NewHandler creates a new HTTP handler
func NewHandler(services Services, config HandlerConfig) *Handler {
	if config.SimpleLimit <= 0 {
		config.SimpleLimit = 4
	}
	if config.EnrichedLimit <= 0 {
		config.EnrichedLimit = 6
	}
	if config.DefaultBudget <= 0 {
		config.DefaultBudget = 5000
	}
	return &Handler{services: services, config: config}
}

// ShoppingSearchRequest is the body of POST /shopping-search
type ShoppingSearchRequest struct {
	Items       []string `json:"items"`
	TotalBudget *float64 `json:"totalBudget"`
}

// SearchFurnitureRequest is the body of POST /search-furniture
type SearchFurnitureRequest struct {
	Furniture []domain.FurnitureItem `json:"furniture"`
	Budget    *float64               `json:"budget"`
}

// GenerateRoomDesignRequest is the body of POST /generate-room-design
type GenerateRoomDesignRequest struct {
	Image        string   `json:"image"`
	MimeType     string   `json:"mimeType"`
	Styles       []string `json:"styles"`
	Colors       []string `json:"colors"`
	Budget       float64  `json:"budget"`
	Instructions string   `json:"instructions"`
}

// TestSerpRequest is the body of POST /test-serp
type TestSerpRequest struct {
	Query string `json:"query"`
}

// Root confirms the server is up
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Server is running! (Gemini + SERP + Gallery)",
	})
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "roomstyler-backend",
		"version": "1.0.0",
	})
}

// ShoppingSearch searches a list of plain queries
func (h *Handler) ShoppingSearch(c *gin.Context) {
	var req ShoppingSearchRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	if len(req.Items) == 0 {
		respondError(c, fmt.Errorf("%w: Items array is required", domain.ErrInvalidInput))
		return
	}

	budget := h.config.DefaultBudget
	if req.TotalBudget != nil {
		budget = *req.TotalBudget
	}

	outcome, err := h.services.Matcher.MatchAll(c.Request.Context(), req.Items, h.config.SimpleLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"totalBudget": budget,
		"results":     outcome,
	})
}

// SearchFurniture enriches furniture items with product candidates and a cost range
func (h *Handler) SearchFurniture(c *gin.Context) {
	var req SearchFurnitureRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	if len(req.Furniture) == 0 {
		respondError(c, fmt.Errorf("%w: Furniture array is required", domain.ErrInvalidInput))
		return
	}

	budget := h.config.DefaultBudget
	if req.Budget != nil {
		budget = *req.Budget
	}

	result, err := h.services.Pipeline.Run(c.Request.Context(), req.Furniture, budget, h.config.EnrichedLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"furniture": result.Furniture,
		"costRange": result.CostRange,
	})
}

// GenerateRoomDesign redraws the uploaded room and shops for its furniture
func (h *Handler) GenerateRoomDesign(c *gin.Context) {
	var req GenerateRoomDesignRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	image, mimeType, err := decodeImage(req.Image, req.MimeType)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.services.Design.GenerateRoomDesign(c.Request.Context(), domain.DesignRequest{
		Image:        image,
		MimeType:     mimeType,
		Styles:       req.Styles,
		Colors:       req.Colors,
		Budget:       req.Budget,
		Instructions: req.Instructions,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"imageUrl":  result.ImageURL,
		"mimeType":  result.MimeType,
		"furniture": result.Furniture,
		"costRange": result.CostRange,
	})
}

// TestSerp runs one raw provider search. Unlike the batch routes a provider
// failure is reported to the caller.
func (h *Handler) TestSerp(c *gin.Context) {
	var req TestSerpRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	results, err := h.services.Searcher.Search(c.Request.Context(), req.Query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"query":   req.Query,
		"results": results,
	})
}

// UploadGalleryImage saves an image and its design payload to the gallery
func (h *Handler) UploadGalleryImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondGalleryError(c, err)
			return
		}
		respondGalleryError(c, fmt.Errorf("%w: missing 'image' file", domain.ErrInvalidInput))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondGalleryError(c, fmt.Errorf("%w: unreadable upload: %v", domain.ErrInvalidInput, err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respondGalleryError(c, fmt.Errorf("%w: unreadable upload: %v", domain.ErrInvalidInput, err))
		return
	}

	image, err := h.services.Gallery.Save(c.Request.Context(), domain.GalleryUpload{
		Filename:   fileHeader.Filename,
		Content:    content,
		DesignData: c.PostForm("design_data"),
	})
	if err != nil {
		respondGalleryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "image": image})
}

// ListGalleryImages returns one page of saved designs
func (h *Handler) ListGalleryImages(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "pageSize", 30)

	result, err := h.services.Gallery.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respondGalleryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"images":   result.Images,
		"page":     result.Page,
		"pageSize": result.PageSize,
		"total":    result.Total,
	})
}

// DeleteGalleryImage removes a saved design
func (h *Handler) DeleteGalleryImage(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondGalleryError(c, err)
		return
	}

	if err := h.services.Gallery.Delete(c.Request.Context(), id); err != nil {
		respondGalleryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DownloadShoppingList returns the saved design as an XLSX shopping list
func (h *Handler) DownloadShoppingList(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondGalleryError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.services.Gallery.ShoppingList(c.Request.Context(), id, &buf); err != nil {
		respondGalleryError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="design-%d-shopping-list.xlsx"`, id))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// bindJSON decodes the body, reporting oversized bodies as such and
// everything else as invalid input
func bindJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return fmt.Errorf("%w: malformed JSON body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// decodeImage accepts raw base64 or a data URL. The data URL's mime type is
// used when none is given explicitly.
func decodeImage(encoded, mimeType string) ([]byte, string, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, "", fmt.Errorf("%w: image is required", domain.ErrInvalidInput)
	}

	if rest, ok := strings.CutPrefix(encoded, "data:"); ok {
		header, payload, found := strings.Cut(rest, ",")
		if !found {
			return nil, "", fmt.Errorf("%w: malformed data URL", domain.ErrInvalidInput)
		}
		if mimeType == "" {
			mimeType = strings.TrimSuffix(header, ";base64")
		}
		encoded = payload
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("%w: image is not valid base64", domain.ErrInvalidInput)
	}
	return data, mimeType, nil
}

// queryInt parses an integer query parameter, falling back to def when it is
// absent or unparseable
func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id", domain.ErrInvalidInput)
	}
	return id, nil
}
