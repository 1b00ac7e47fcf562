// Package beerstore serves the delegated scrape and storage API used by the
// bot: the current venue menu plus a per-user list of saved beers.
package beerstore

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/titansbeer/titans-linebot-go/internal/beer"
	apperrors "github.com/titansbeer/titans-linebot-go/internal/errors"
	"github.com/titansbeer/titans-linebot-go/internal/fetcher"
	"github.com/titansbeer/titans-linebot-go/internal/logger"
	"github.com/titansbeer/titans-linebot-go/internal/storage"
)

// TotalCountHeader carries the number of saved beers before the list cap.
const TotalCountHeader = "X-Total-Count"

// MenuSource yields the venue menu.
type MenuSource interface {
	FetchMenu(ctx context.Context) fetcher.Result[beer.Record]
}

// Server holds the handlers of the beer store API.
type Server struct {
	repo   storage.SavedBeerRepository
	menu   MenuSource
	logger *logger.Logger
	now    func() time.Time
}

// New creates a Server.
func New(repo storage.SavedBeerRepository, menu MenuSource, log *logger.Logger) *Server {
	return &Server{
		repo:   repo,
		menu:   menu,
		logger: log.WithModule("beerstore"),
		now:    time.Now,
	}
}

// Register mounts the API on r.
//
//	GET  /                 menu records
//	GET  /mybeers/:userId  saved beers, newest first, with X-Total-Count
//	POST /save             save one beer
func (s *Server) Register(r gin.IRoutes) {
	r.GET("/", s.listMenu)
	r.GET("/mybeers/:userId", s.listSaved)
	r.POST("/save", s.save)
}

// saveBody accepts abv and rating as strings or numbers.
type saveBody struct {
	UserID   string    `json:"user_id"`
	BeerName string    `json:"beer_name"`
	Brewery  string    `json:"brewery"`
	Style    string    `json:"style"`
	ABV      beer.Text `json:"abv"`
	Rating   beer.Text `json:"rating"`
}

func (b saveBody) request() beer.SaveRequest {
	return beer.SaveRequest{
		UserID:   strings.TrimSpace(b.UserID),
		BeerName: strings.TrimSpace(b.BeerName),
		Brewery:  b.Brewery,
		Style:    b.Style,
		ABV:      b.ABV.String(),
		Rating:   b.Rating.String(),
	}
}

func (s *Server) listMenu(c *gin.Context) {
	ctx := c.Request.Context()
	result := s.menu.FetchMenu(ctx)

	switch result.Status {
	case fetcher.StatusOK:
		c.JSON(http.StatusOK, result.Items)
	case fetcher.StatusEmpty:
		c.JSON(http.StatusOK, []beer.Record{})
	default:
		s.logger.WithError(result.Err).WarnContext(ctx, "Menu scrape failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "menu unavailable"})
	}
}

func (s *Server) listSaved(c *gin.Context) {
	ctx := c.Request.Context()
	userID := strings.TrimSpace(c.Param("userId"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	rows, err := s.repo.ListSavedBeers(ctx, userID, storage.DefaultListLimit)
	if err != nil {
		s.logger.WithError(err).ErrorContext(ctx, "Failed to list saved beers")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}

	saved := make([]beer.Saved, len(rows))
	for i, row := range rows {
		saved[i] = row.Saved()
	}

	// The list is capped; the header tells clients how many exist.
	if total, err := s.repo.CountSavedBeers(ctx, userID); err != nil {
		s.logger.WithError(err).WarnContext(ctx, "Failed to count saved beers")
	} else {
		c.Header(TotalCountHeader, strconv.Itoa(total))
		if total > len(saved) {
			s.logger.WithField("user_id", userID).
				WithField("total", total).
				DebugContext(ctx, "Saved beers truncated")
		}
	}
	c.JSON(http.StatusOK, saved)
}

func (s *Server) save(c *gin.Context) {
	ctx := c.Request.Context()

	var body saveBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	req := body.request()
	err := s.repo.SaveBeer(ctx, storage.FromSaveRequest(req, s.now()))
	switch {
	case err == nil:
		s.logger.WithField("user_id", req.UserID).
			WithField("beer", req.BeerName).
			InfoContext(ctx, "Beer saved")
		c.JSON(http.StatusCreated, gin.H{"status": "saved"})
	case apperrors.IsInvalidInput(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.WithError(err).ErrorContext(ctx, "Failed to save beer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
	}
}
