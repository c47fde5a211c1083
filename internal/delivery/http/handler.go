// JSON REST surface for the presentation layer: device views, scans and group start.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	_ "ethonode/docs"
	"ethonode/internal/core/clock"
	"ethonode/internal/core/devices"
	"ethonode/internal/core/elapsed"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

// ClockReader exposes the latest node time sample.
type ClockReader interface {
	CurrentSample() (clock.Sample, bool)
}

type Handler struct {
	reg   *devices.Registry
	coord *devices.Coordinator
	clk   ClockReader
	lg    zerolog.Logger
}

// deviceView is a device record plus its rendered run time.
type deviceView struct {
	devices.Device
	Elapsed string `json:"elapsed,omitempty" example:"1 days, 1h, 1min, 1s"`
}

// groupRequest selects the devices of a group action.
type groupRequest struct {
	Devices []string        `json:"devices" example:"0265ac,0266bd"`
	Options json.RawMessage `json:"options,omitempty" swaggertype:"object"`
}

type checkResponse struct {
	Compatible bool `json:"compatible"`
}

type startResponse struct {
	Succeeded int                     `json:"succeeded"`
	Failed    int                     `json:"failed"`
	Outcomes  []devices.ActionOutcome `json:"outcomes"`
}

type outcomesResponse struct {
	DispatchID  string                  `json:"dispatch_id"`
	Dispatching bool                    `json:"dispatching"`
	Outcomes    []devices.ActionOutcome `json:"outcomes"`
}

type timeResponse struct {
	Known bool `json:"known"`
	clock.Sample
}

type statusResponse struct {
	Scanning    bool `json:"scanning"`
	Dispatching bool `json:"dispatching"`
	Devices     int  `json:"devices"`
}

func New(reg *devices.Registry, coord *devices.Coordinator, clk ClockReader, lg zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := &Handler{reg: reg, coord: coord, clk: clk, lg: lg.With().Str("component", "http").Logger()}

	// --- API Routes ---
	r.Route("/devices", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/scan", h.handleScan)
		r.Get("/{deviceID}", h.handleGet)
		r.Post("/{deviceID}/refresh", h.handleRefresh)
	})
	r.Route("/group", func(r chi.Router) {
		r.Post("/check", h.handleCheck)
		r.Post("/start", h.handleStart)
		r.Get("/outcomes", h.handleOutcomes)
	})
	r.Get("/node/time", h.handleTime)
	r.Get("/status", h.handleStatus)

	// --- Swagger Docs Route ---
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusMovedPermanently)
	})
	r.Get("/docs/*", httpSwagger.WrapHandler)

	return r
}

// handleList lists every known device.
// @Summary      List devices
// @Description  Returns the last-known record of every device, including unreachable ones.
// @Tags         devices
// @Produce      json
// @Param        sort     query     string  false  "Sort field (name, id, status, version, elapsed)"
// @Param        reverse  query     bool    false  "Reverse the order"
// @Success      200      {array}   deviceView
// @Router       /devices [get]
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list := h.reg.All()
	reverse, _ := strconv.ParseBool(r.URL.Query().Get("reverse"))
	devices.SortDevices(list, r.URL.Query().Get("sort"), reverse)
	writeJSON(w, http.StatusOK, views(list))
}

// handleScan rescans the node for devices.
// @Summary      Scan for devices
// @Description  Runs a discovery scan, or joins the one already running.
// @Tags         devices
// @Produce      json
// @Success      200  {array}   deviceView
// @Failure      502  {string}  string "Bad Gateway"
// @Router       /devices/scan [post]
func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request) {
	found, err := h.reg.Discover(r.Context())
	if err != nil {
		h.fail(w, "scan", err)
		return
	}
	devices.SortDevices(found, "name", false)
	writeJSON(w, http.StatusOK, views(found))
}

// handleGet returns one device.
// @Summary      Get a device
// @Tags         devices
// @Produce      json
// @Param        deviceID  path      string  true  "Device ID"
// @Success      200       {object}  deviceView
// @Failure      404       {string}  string "Not Found"
// @Router       /devices/{deviceID} [get]
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	d, ok := h.reg.Get(chi.URLParam(r, "deviceID"))
	if !ok {
		http.Error(w, devices.ErrNotFound.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, view(d))
}

// handleRefresh fetches one device's detail and address.
// @Summary      Refresh a device
// @Tags         devices
// @Produce      json
// @Param        deviceID  path      string  true  "Device ID"
// @Success      200       {object}  deviceView
// @Failure      404       {string}  string "Not Found"
// @Failure      502       {string}  string "Bad Gateway"
// @Router       /devices/{deviceID}/refresh [post]
func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "deviceID")
	d, err := h.reg.RefreshOne(r.Context(), id)
	if err != nil {
		h.fail(w, "refresh", err)
		return
	}
	if withIP, err := h.reg.RefreshIP(r.Context(), id); err == nil {
		d = withIP
	}
	writeJSON(w, http.StatusOK, view(d))
}

// handleCheck reports whether the selected devices run the same version.
// @Summary      Check group versions
// @Tags         group
// @Accept       json
// @Produce      json
// @Param        group  body      groupRequest  true  "Selected devices"
// @Success      200    {object}  checkResponse
// @Failure      400    {string}  string "Bad Request"
// @Failure      502    {string}  string "Bad Gateway"
// @Router       /group/check [post]
func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeGroup(w, r)
	if !ok {
		return
	}
	err := h.coord.CheckVersionCompatible(r.Context(), req.Devices)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, checkResponse{Compatible: true})
	case errors.Is(err, devices.ErrVersionMismatch):
		writeJSON(w, http.StatusOK, checkResponse{Compatible: false})
	default:
		h.fail(w, "version check", err)
	}
}

// handleStart starts tracking on every selected device.
// @Summary      Start a group
// @Description  Checks that all selected devices run the same version, then sends the start command to each one. One device failing does not affect the others.
// @Tags         group
// @Accept       json
// @Produce      json
// @Param        group  body      groupRequest  true  "Selected devices and start options"
// @Success      200    {object}  startResponse
// @Failure      400    {string}  string "Bad Request"
// @Failure      409    {string}  string "Conflict"
// @Failure      502    {string}  string "Bad Gateway"
// @Router       /group/start [post]
func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeGroup(w, r)
	if !ok {
		return
	}
	outcomes, err := h.coord.StartGroup(r.Context(), req.Devices, req.Options)
	if err != nil {
		h.fail(w, "start group", err)
		return
	}
	resp := startResponse{Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Succeeded {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleOutcomes returns the outcomes of the latest group dispatch.
// @Summary      Latest group outcomes
// @Tags         group
// @Produce      json
// @Success      200  {object}  outcomesResponse
// @Router       /group/outcomes [get]
func (h *Handler) handleOutcomes(w http.ResponseWriter, _ *http.Request) {
	id, outcomes := h.coord.LastOutcomes()
	writeJSON(w, http.StatusOK, outcomesResponse{
		DispatchID:  id,
		Dispatching: h.coord.Dispatching(),
		Outcomes:    outcomes,
	})
}

// handleTime returns the latest node time sample.
// @Summary      Node time
// @Tags         node
// @Produce      json
// @Success      200  {object}  timeResponse
// @Router       /node/time [get]
func (h *Handler) handleTime(w http.ResponseWriter, _ *http.Request) {
	s, ok := h.clk.CurrentSample()
	writeJSON(w, http.StatusOK, timeResponse{Known: ok, Sample: s})
}

// handleStatus returns the loading indicators.
// @Summary      Busy indicators
// @Tags         node
// @Produce      json
// @Success      200  {object}  statusResponse
// @Router       /status [get]
func (h *Handler) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Scanning:    h.reg.Scanning(),
		Dispatching: h.coord.Dispatching(),
		Devices:     len(h.reg.All()),
	})
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.lg.Error().Err(err).Msg(op)
	} else {
		h.lg.Debug().Err(err).Msg(op)
	}
	http.Error(w, err.Error(), code)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, devices.ErrEmptySelection):
		return http.StatusBadRequest
	case errors.Is(err, devices.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, devices.ErrVersionMismatch), errors.Is(err, devices.ErrRejected):
		return http.StatusConflict
	case errors.Is(err, devices.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeGroup(w http.ResponseWriter, r *http.Request) (groupRequest, bool) {
	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `body must be {"devices":["<id>",...],"options":{...}}`, http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func view(d devices.Device) deviceView {
	v := deviceView{Device: d}
	if d.ElapsedSeconds != nil {
		v.Elapsed = elapsed.Format(*d.ElapsedSeconds)
	}
	return v
}

func views(list []devices.Device) []deviceView {
	out := make([]deviceView, len(list))
	for i, d := range list {
		out[i] = view(d)
	}
	return out
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
