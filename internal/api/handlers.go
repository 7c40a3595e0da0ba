package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/metrics"
	"github.com/hammamikhairi/ottomeasure/internal/units"
)

var validate = validator.New()

// ConvertRequest is the body of POST /api/v1/convert. JSON cannot encode
// NaN or infinities, so gte=0 is the only amount check needed.
type ConvertRequest struct {
	Amount *float64 `json:"amount" validate:"required,gte=0"`
	Unit   string   `json:"unit" validate:"max=64"`
	Target string   `json:"target" validate:"required,oneof=metric imperial"`
}

// ConvertResponse is the converted measurement.
type ConvertResponse struct {
	Amount  float64 `json:"amount"`
	Unit    string  `json:"unit"`
	Class   string  `json:"class"`
	Outcome string  `json:"outcome"`
}

// DetectRequest is the body of POST /api/v1/detect.
type DetectRequest struct {
	Ingredients []DetectIngredient `json:"ingredients" validate:"max=500,dive"`
}

// DetectIngredient carries the one field detection looks at.
type DetectIngredient struct {
	Unit string `json:"unit" validate:"max=64"`
}

// DetectResponse reports the dominant system and the vote counts.
type DetectResponse struct {
	System   string `json:"system"`
	Imperial int    `json:"imperial"`
	Metric   int    `json:"metric"`
}

// SummaryResponse is one entry of the recipe list.
type SummaryResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// RecipeResponse is a recipe rendered in one display mode.
type RecipeResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Servings    int                  `json:"servings"`
	Mode        string               `json:"mode"`
	Detected    string               `json:"detected"`
	Ingredients []IngredientResponse `json:"ingredients"`
	Steps       []string             `json:"steps"`
}

// IngredientResponse is one displayed ingredient.
type IngredientResponse struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
	Size     string  `json:"size,omitempty"`
	Notes    string  `json:"notes,omitempty"`
	Optional bool    `json:"optional,omitempty"`
	Outcome  string  `json:"outcome"`
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondOK(w, map[string]string{"status": "ok"})
}

// ListRecipes returns recipe summaries.
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	var (
		list []domain.RecipeSummary
		err  error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		list, err = h.engine.SearchRecipes(r.Context(), q)
	} else {
		list, err = h.engine.ListRecipes(r.Context())
	}
	if err != nil {
		h.log.Error("listing recipes: %v", err)
		h.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list recipes", nil)
		return
	}
	out := make([]SummaryResponse, len(list))
	for i, sum := range list {
		out[i] = SummaryResponse{ID: sum.ID, Name: sum.Name, Description: sum.Description, Tags: sum.Tags}
	}
	h.respondOK(w, out)
}

// GetRecipe returns one recipe rendered in the requested mode.
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	mode, err := domain.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "mode must be original, metric or imperial", nil)
		return
	}

	rec, err := h.engine.GetRecipe(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrNotFound) {
		h.respondError(w, http.StatusNotFound, "NOT_FOUND", "Recipe not found", nil)
		return
	}
	if err != nil {
		h.log.Error("getting recipe: %v", err)
		h.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load recipe", nil)
		return
	}

	h.respondOK(w, recipeResponse(h.engine.RenderRecipe(rec, mode)))
}

// Convert converts a single measurement.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if !h.decode(w, r, &req) {
		return
	}
	target, err := domain.ParseSystem(req.Target)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "target must be metric or imperial", nil)
		return
	}

	res := units.Convert(domain.Measurement{Amount: *req.Amount, Unit: req.Unit}, target)
	metrics.RecordConversion(res.Outcome.String(), target.String())
	if res.Outcome == units.OutcomeMissingEntry {
		h.log.Warn("no %s conversion for unit %q", target, req.Unit)
	}

	h.respondOK(w, ConvertResponse{
		Amount:  res.Measurement.Amount,
		Unit:    res.Measurement.Unit,
		Class:   res.Class.String(),
		Outcome: res.Outcome.String(),
	})
}

// Detect reports the dominant measurement system of a unit list.
func (h *Handler) Detect(w http.ResponseWriter, r *http.Request) {
	var req DetectRequest
	if !h.decode(w, r, &req) {
		return
	}

	us := make([]string, len(req.Ingredients))
	for i, ing := range req.Ingredients {
		us[i] = ing.Unit
	}
	imperial, metric := units.Tally(us)
	sys := units.DetectSystem(us)
	metrics.RecordDetection(sys.String())

	h.respondOK(w, DetectResponse{System: sys.String(), Imperial: imperial, Metric: metric})
}

// decode reads and validates a JSON body. It writes the error response
// and returns false on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body", nil)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", validationDetails(err))
		return false
	}
	return true
}

func validationDetails(err error) []map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]map[string]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, map[string]string{"field": fe.Namespace(), "rule": fe.Tag()})
	}
	return out
}

func recipeResponse(v *domain.RecipeView) RecipeResponse {
	resp := RecipeResponse{
		ID:          v.Recipe.ID,
		Name:        v.Recipe.Name,
		Description: v.Recipe.Description,
		Servings:    v.Recipe.Servings,
		Mode:        v.Mode.String(),
		Detected:    v.Detected.String(),
		Ingredients: make([]IngredientResponse, len(v.Ingredients)),
		Steps:       v.Recipe.Steps,
	}
	for i, ing := range v.Ingredients {
		resp.Ingredients[i] = IngredientResponse{
			Name:     ing.Name,
			Amount:   ing.Quantity,
			Unit:     ing.Unit,
			Size:     ing.SizeDescriptor,
			Notes:    ing.Notes,
			Optional: ing.Optional,
			Outcome:  v.Outcomes[i],
		}
	}
	if resp.Steps == nil {
		resp.Steps = []string{}
	}
	return resp
}
