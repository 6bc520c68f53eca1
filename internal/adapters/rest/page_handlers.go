package rest

import (
	"context"
	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"
	"listing-web/internal/core/port/usecases_port"
	"listing-web/internal/core/view"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

const (
	notFoundMessage = "Không có dữ liệu của sản phẩm!"
	loadingMessage  = "Loading..."
	errorMessage    = "Đã xảy ra lỗi, vui lòng thử lại sau."
)

type pageData struct {
	Title        string
	RefreshAfter int
	RefreshURL   string
}

type listingPageData struct {
	pageData
	Page          domain.ListingPage
	Busy          bool
	SkeletonCount int
	ScrollToTop   bool
}

type detailPageData struct {
	pageData
	Detail view.DetailSnapshot
}

type messagePageData struct {
	pageData
	Message  string
	BackLink bool
}

// PageHandler отдает HTML-страницы сайта.
type PageHandler struct {
	listUC     usecases_port.ListPropertiesUseCasePort
	renderer   *Renderer
	renderWait time.Duration
}

// NewPageHandler - конструктор. renderWait ограничивает ожидание загрузки детальной страницы.
func NewPageHandler(listUC usecases_port.ListPropertiesUseCasePort, renderer *Renderer, renderWait time.Duration) *PageHandler {
	return &PageHandler{
		listUC:     listUC,
		renderer:   renderer,
		renderWait: renderWait,
	}
}

// Listing обрабатывает GET / и GET /listings?page=N
func (h *PageHandler) Listing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Listing"})

	sess, ok := sessionFromContext(r.Context())
	if !ok {
		logger.Error("Session missing in request context", nil, nil)
		h.renderMessage(w, r, http.StatusInternalServerError, errorMessage)
		return
	}

	// Шаг 1: монтируем сетку (первый визит запускает начальную задержку)
	sess.Listing.Mount()

	records, err := h.listUC.Execute(r.Context())
	if err != nil {
		logger.Error("List properties use case failed", err, nil)
		h.renderMessage(w, r, http.StatusBadGateway, errorMessage)
		return
	}

	// Шаг 2: переключаем страницу, если она запрошена явно
	page, requested, err := GetPageOrDefault(r)
	if err != nil {
		logger.Warn("Invalid page parameter, keeping current page", port.Fields{"page": r.URL.Query().Get("page")})
	}
	if requested {
		totalPages := domain.TotalPages(len(records), domain.PageSize)
		sess.Listing.ChangePage(domain.ClampPage(page, totalPages))
	}

	// Шаг 3: снимок и рендер
	snapshot := sess.Listing.Render(records)
	data := listingPageData{
		pageData:      pageData{Title: "Nhà đất"},
		Page:          snapshot.Page,
		Busy:          snapshot.Busy,
		SkeletonCount: domain.PageSize,
		ScrollToTop:   snapshot.ScrollToTop,
	}
	if snapshot.Busy {
		data.RefreshAfter = refreshSeconds(snapshot.BusyFor.Milliseconds())
		data.RefreshURL = "/listings"
	}

	logger.Debug("Rendering listing page", port.Fields{
		"page":        snapshot.Page.Pagination.CurrentPage,
		"total_pages": snapshot.Page.Pagination.TotalPages,
		"busy":        snapshot.Busy,
	})
	if err := h.renderer.Render(w, http.StatusOK, "listing", data); err != nil {
		logger.Error("Failed to render listing page", err, nil)
	}
}

// DetailProduct обрабатывает GET /detailproduct?nhadat=true&id=X
func (h *PageHandler) DetailProduct(w http.ResponseWriter, r *http.Request) {
	h.detail(w, r, r.URL.Query().Get("id"))
}

// Preview обрабатывает GET /preview/{id}
func (h *PageHandler) Preview(w http.ResponseWriter, r *http.Request) {
	h.detail(w, r, chi.URLParam(r, "id"))
}

func (h *PageHandler) detail(w http.ResponseWriter, r *http.Request, id string) {
	id = strings.TrimSpace(id)
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":     "Detail",
		"property_id": id,
	})

	sess, ok := sessionFromContext(r.Context())
	if !ok {
		logger.Error("Session missing in request context", nil, nil)
		h.renderMessage(w, r, http.StatusInternalServerError, errorMessage)
		return
	}

	if id == "" {
		h.renderMessage(w, r, http.StatusNotFound, notFoundMessage)
		return
	}

	// Загрузка живет в сессии, запрос только ждет ее ограниченное время
	sess.Detail.SetID(r.Context(), id)
	waitCtx, cancel := context.WithTimeout(r.Context(), h.renderWait)
	defer cancel()
	snapshot := sess.Detail.Await(waitCtx)

	switch snapshot.Status {
	case view.DetailReady:
		data := detailPageData{
			pageData: pageData{Title: snapshot.Record.Title},
			Detail:   snapshot,
		}
		if err := h.renderer.Render(w, http.StatusOK, "detail", data); err != nil {
			logger.Error("Failed to render detail page", err, nil)
		}
	case view.DetailLoading:
		logger.Debug("Detail still loading, asking client to refresh", nil)
		data := messagePageData{
			pageData: pageData{Title: loadingMessage, RefreshAfter: 1},
			Message:  loadingMessage,
		}
		if err := h.renderer.Render(w, http.StatusOK, "message", data); err != nil {
			logger.Error("Failed to render loading page", err, nil)
		}
	default:
		h.renderMessage(w, r, http.StatusNotFound, notFoundMessage)
	}
}

// Carousel обрабатывает POST /preview/{id}/carousel/{next|prev} и возвращает на детальную страницу.
func (h *PageHandler) Carousel(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	direction := chi.URLParam(r, "direction")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":     "Carousel",
		"property_id": id,
		"direction":   direction,
	})

	sess, ok := sessionFromContext(r.Context())
	if !ok {
		logger.Error("Session missing in request context", nil, nil)
		h.renderMessage(w, r, http.StatusInternalServerError, errorMessage)
		return
	}

	var moved bool
	// Листаем только ту карусель, которая сейчас открыта в сессии
	if sess.Detail.Snapshot().ID == id {
		switch direction {
		case "next":
			moved = sess.Detail.NextImage()
		case "prev":
			moved = sess.Detail.PrevImage()
		default:
			h.renderMessage(w, r, http.StatusNotFound, notFoundMessage)
			return
		}
	}
	logger.Debug("Carousel navigation", port.Fields{"moved": moved})

	http.Redirect(w, r, previewURL(id), http.StatusSeeOther)
}

func (h *PageHandler) renderMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := messagePageData{
		pageData: pageData{Title: message},
		Message:  message,
		BackLink: true,
	}
	if err := h.renderer.Render(w, status, "message", data); err != nil {
		contextkeys.LoggerFromContext(r.Context()).Error("Failed to render message page", err, nil)
		http.Error(w, message, status)
	}
}
