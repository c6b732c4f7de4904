package rpc

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/moonfun/moonfun-portal/curve"
	"github.com/moonfun/moonfun-portal/imagecache"
	"github.com/moonfun/moonfun-portal/market"
	"github.com/moonfun/moonfun-portal/upload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moonfun_uploads_total",
		Help: "Relay upload results by outcome.",
	}, []string{"outcome"})

	quotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moonfun_quotes_total",
		Help: "Trade quotes served by direction.",
	}, []string{"direction"})
)

// Handler bundles the portal API's collaborators.
type Handler struct {
	Chain   *upload.Chain
	Params  curve.Params
	Watcher *market.Watcher
	Store   imagecache.Store
	// MaxDimension bounds cached images; zero means the package default.
	MaxDimension int
}

// Mount registers the API routes.
func (h *Handler) Mount(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", h.handleUpload)
		r.Get("/quote", h.handleQuote)
		r.Post("/images", h.handleCacheImage)
		r.Get("/images/{id}", h.handleGetImage)
		r.Get("/trades", h.handleTrades)
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// readCandidate extracts the multipart "file" field into an upload.Candidate.
func readCandidate(r *http.Request) (upload.Candidate, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return upload.Candidate{}, errors.New("missing file field")
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return upload.Candidate{}, err
	}

	mime := header.Header.Get("Content-Type")
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	return upload.Candidate{Data: data, MIME: mime, Filename: header.Filename}, nil
}

// handleUpload is the relay endpoint: one multipart file in, {url} out.
// Validation failures are the client's fault (400); chain exhaustion means
// every downstream host refused us (502).
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	candidate, err := readCandidate(r)
	if err != nil {
		uploadsTotal.WithLabelValues("bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	url, err := h.Chain.Upload(r.Context(), candidate)
	if err != nil {
		var exhausted *upload.ExhaustedError
		switch {
		case errors.As(err, &exhausted):
			uploadsTotal.WithLabelValues("exhausted").Inc()
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		default:
			// Validation errors: not an image, or too large.
			uploadsTotal.WithLabelValues("rejected").Inc()
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return
	}

	uploadsTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, struct {
		URL string `json:"url"`
	}{URL: url})
}

type quoteResponse struct {
	Direction        string `json:"direction"`
	EstimatedOutput  string `json:"estimatedOutput"`
	MinimumOutput    string `json:"minimumOutput"`
	MinimumBaseUnits string `json:"minimumBaseUnits"`
	TotalSold        string `json:"totalSold"`
	UpdatedAt        int64  `json:"updatedAt"`
}

// handleQuote previews a trade against the last polled totalSold. Malformed
// amounts are not an error: the quote degrades to zero exactly like the
// form preview does.
func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	direction, ok := curve.ParseDirection(r.URL.Query().Get("direction"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "direction must be buy or sell"})
		return
	}

	state := h.Watcher.State()
	quote := h.Params.QuoteFor(direction, state.TotalSold, r.URL.Query().Get("amount"))
	quotesTotal.WithLabelValues(string(direction)).Inc()

	// Token amounts display with 2 fractional digits, quote currency with 6.
	var places int32 = 6
	if direction == curve.Buy {
		places = 2
	}

	writeJSON(w, http.StatusOK, quoteResponse{
		Direction:        string(direction),
		EstimatedOutput:  quote.EstimatedOutput.StringFixed(places),
		MinimumOutput:    quote.MinimumOutput.String(),
		MinimumBaseUnits: quote.MinimumBaseUnits.String(),
		TotalSold:        state.TotalSold.String(),
		UpdatedAt:        state.UpdatedAt.Unix(),
	})
}

type cacheImageResponse struct {
	ID      string `json:"id"`
	Ref     string `json:"ref"`
	DataURL string `json:"dataUrl"`
}

// handleCacheImage compresses an uploaded image into the local cache and
// returns the local:// reference to embed on-chain.
func (h *Handler) handleCacheImage(w http.ResponseWriter, r *http.Request) {
	candidate, err := readCandidate(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	_, dataURL, err := imagecache.Compress(candidate.Data, h.MaxDimension)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	entry := imagecache.Entry{
		ID:        imagecache.NewID(),
		DataURL:   dataURL,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := h.Store.Save(entry); err != nil {
		Logger.Error().Err(err).Msg("failed to save cached image")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to save image"})
		return
	}

	writeJSON(w, http.StatusOK, cacheImageResponse{
		ID:      entry.ID,
		Ref:     imagecache.Scheme + entry.ID,
		DataURL: entry.DataURL,
	})
}

// handleGetImage resolves a cached image by id. A miss is a 404 the client
// answers with its placeholder art; it is not a server failure.
func (h *Handler) handleGetImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entry, ok, err := h.Store.Get(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "image lookup failed"})
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "image not found"})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

type tradesResponse struct {
	TotalSold string         `json:"totalSold"`
	Trades    []market.Trade `json:"trades"`
	UpdatedAt int64          `json:"updatedAt"`
}

// handleTrades serves the last polled trade feed for the chart and table.
func (h *Handler) handleTrades(w http.ResponseWriter, r *http.Request) {
	state := h.Watcher.State()
	writeJSON(w, http.StatusOK, tradesResponse{
		TotalSold: state.TotalSold.String(),
		Trades:    state.Trades,
		UpdatedAt: state.UpdatedAt.Unix(),
	})
}
