package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/roadpath/pkg/datastructure"
	"github.com/lintang-b-s/roadpath/pkg/server"
	"github.com/lintang-b-s/roadpath/pkg/server/rest/service"
	"github.com/lintang-b-s/roadpath/pkg/util"
)

type NavigationService interface {
	ShortestPath(ctx context.Context, source, target int64) (service.ShortestPathResult, error)
	ShortestPathCoord(ctx context.Context, srcLat, srcLon, dstLat, dstLon float64) (service.ShortestPathResult, error)
	Distances(ctx context.Context, source int64) ([]service.NodeDistance, error)
}

type NavigationHandler struct {
	svc      NavigationService
	metrics  *Metrics
	validate *validator.Validate
	trans    ut.Translator
}

func NavigatorRouter(r *chi.Mux, svc NavigationService, m *Metrics) {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	validate := validator.New()
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	handler := &NavigationHandler{
		svc:      svc,
		metrics:  m,
		validate: validate,
		trans:    trans,
	}

	r.Group(func(r chi.Router) {
		r.Route("/api/navigations", func(r chi.Router) {
			r.Post("/shortest-path", handler.ShortestPath)
			r.Post("/shortest-path-coord", handler.ShortestPathCoord)
			r.Get("/distances/{source}", handler.Distances)
		})
	})
}

// ShortestPathRequest model info
//
//	@Description	request body shortest path antar dua node road graph
type ShortestPathRequest struct {
	Source *int64 `json:"source" validate:"required"`
	Target *int64 `json:"target" validate:"required"`
}

func (s *ShortestPathRequest) Bind(r *http.Request) error {
	return nil
}

// ShortestPathCoordRequest model info
//
//	@Description	request body shortest path antar dua koordinat, setiap koordinat di snap ke node terdekat
type ShortestPathCoordRequest struct {
	SrcLat *float64 `json:"src_lat" validate:"required,lte=90,gte=-90"`
	SrcLon *float64 `json:"src_lon" validate:"required,lte=180,gte=-180"`
	DstLat *float64 `json:"dst_lat" validate:"required,lte=90,gte=-90"`
	DstLon *float64 `json:"dst_lon" validate:"required,lte=180,gte=-180"`
}

func (s *ShortestPathCoordRequest) Bind(r *http.Request) error {
	return nil
}

// RoadResponse model info
//
//	@Description	satu road di shortest path, arah from -> to
type RoadResponse struct {
	From   int64   `json:"from"`
	To     int64   `json:"to"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// ShortestPathResponse model info
//
//	@Description	response body shortest path
type ShortestPathResponse struct {
	Source      int64          `json:"source"`
	Target      int64          `json:"target"`
	Distance    float64        `json:"distance"`
	StreetNames []string       `json:"street_names"`
	Roads       []RoadResponse `json:"roads"`
	Path        string         `json:"path,omitempty"`
	Cached      bool           `json:"cached"`
}

func NewShortestPathResponse(res service.ShortestPathResult) *ShortestPathResponse {
	roads := make([]RoadResponse, 0, len(res.Edges))
	for _, e := range res.Edges {
		roads = append(roads, newRoadResponse(e))
	}
	return &ShortestPathResponse{
		Source:      res.Source,
		Target:      res.Target,
		Distance:    util.RoundFloat(res.Distance, 2),
		StreetNames: res.StreetNames,
		Roads:       roads,
		Path:        res.Polyline,
		Cached:      res.Cached,
	}
}

func newRoadResponse(e datastructure.Edge) RoadResponse {
	return RoadResponse{
		From:   e.From,
		To:     e.To,
		Name:   e.Name,
		Weight: e.Weight,
	}
}

// ShortestPath
//
//	@Summary		shortest path antar dua node road graph pakai bounded bellman-ford.
//	@Description	shortest path antar dua node road graph pakai bounded bellman-ford. response berisi urutan road dari source ke target.
//	@Tags			navigations
//	@Param			body	body	ShortestPathRequest	true	"request body shortest path"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/shortest-path [post]
//	@Success		200	{object}	ShortestPathResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) ShortestPath(w http.ResponseWriter, r *http.Request) {
	data := &ShortestPathRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if !h.validateRequest(w, r, data) {
		return
	}

	start := time.Now()
	res, err := h.svc.ShortestPath(r.Context(), *data.Source, *data.Target)
	h.metrics.observeRoute("shortest_path", start)
	if err != nil {
		render.Render(w, r, ErrServiceRend(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewShortestPathResponse(res))
}

// ShortestPathCoord
//
//	@Summary		shortest path antar dua koordinat.
//	@Description	shortest path antar dua koordinat. setiap koordinat di snap ke node road graph terdekat (h3 index).
//	@Tags			navigations
//	@Param			body	body	ShortestPathCoordRequest	true	"request body shortest path koordinat"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/shortest-path-coord [post]
//	@Success		200	{object}	ShortestPathResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) ShortestPathCoord(w http.ResponseWriter, r *http.Request) {
	data := &ShortestPathCoordRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if !h.validateRequest(w, r, data) {
		return
	}

	start := time.Now()
	res, err := h.svc.ShortestPathCoord(r.Context(), *data.SrcLat, *data.SrcLon, *data.DstLat, *data.DstLon)
	h.metrics.observeRoute("shortest_path_coord", start)
	if err != nil {
		render.Render(w, r, ErrServiceRend(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewShortestPathResponse(res))
}

// DistancesResponse model info
//
//	@Description	response body shortest distance dari source ke semua node yang reachable
type DistancesResponse struct {
	Source    int64                 `json:"source"`
	Distances []NodeDistanceResponse `json:"distances"`
}

type NodeDistanceResponse struct {
	NodeID   int64   `json:"node_id"`
	Distance float64 `json:"distance"`
}

// Distances
//
//	@Summary		shortest distance dari source ke semua node.
//	@Description	shortest distance dari source ke semua node yang reachable, urut node id.
//	@Tags			navigations
//	@Param			source	path	int	true	"source node id"
//	@Produce		application/json
//	@Router			/navigations/distances/{source} [get]
//	@Success		200	{object}	DistancesResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) Distances(w http.ResponseWriter, r *http.Request) {
	source, err := strconv.ParseInt(chi.URLParam(r, "source"), 10, 64)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(fmt.Errorf("source must be an integer node id")))
		return
	}

	start := time.Now()
	dists, err := h.svc.Distances(r.Context(), source)
	h.metrics.observeRoute("distances", start)
	if err != nil {
		render.Render(w, r, ErrServiceRend(err))
		return
	}

	resp := &DistancesResponse{
		Source:    source,
		Distances: make([]NodeDistanceResponse, 0, len(dists)),
	}
	for _, d := range dists {
		resp.Distances = append(resp.Distances, NodeDistanceResponse{NodeID: d.NodeID, Distance: util.RoundFloat(d.Distance, 2)})
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

func (h *NavigationHandler) validateRequest(w http.ResponseWriter, r *http.Request, data interface{}) bool {
	if err := h.validate.Struct(data); err != nil {
		vv := translateError(err, h.trans)
		render.Render(w, r, ErrValidation(err, vv))
		return false
	}
	return true
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

// ErrResponse model info
//
//	@Description	model untuk error response
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

// ErrServiceRend. map error service layer ke http status. detail error internal tidak dikirim ke client.
func ErrServiceRend(err error) render.Renderer {
	var serr *server.Error
	if !errors.As(err, &serr) {
		return ErrInternalServerErrorRend(errors.New("internal server error"))
	}

	switch serr.Code() {
	case server.ErrNotFound:
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusNotFound,
			StatusText:     "Not found.",
			ErrorText:      serr.Message(),
		}
	case server.ErrBadParamInput:
		return ErrInvalidRequest(errors.New(serr.Message()))
	case server.ErrConflict:
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusConflict,
			StatusText:     "Conflict.",
			ErrorText:      serr.Message(),
		}
	default:
		return ErrInternalServerErrorRend(errors.New("internal server error"))
	}
}

func ErrInternalServerErrorRend(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 500,
		StatusText:     "Internal server error.",
		ErrorText:      err.Error(),
	}
}
