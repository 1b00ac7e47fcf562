package bot

import (
	"fmt"

	"github.com/titansbeer/titans-linebot-go/internal/beer"
	"github.com/titansbeer/titans-linebot-go/internal/cards"
	apperrors "github.com/titansbeer/titans-linebot-go/internal/errors"
)

// ParsePostback decodes postback data into a save action. Data that is not
// JSON wraps ErrInvalidPostback; any action other than save_beer wraps
// ErrUnknownAction.
func ParsePostback(data string) (beer.SavePayload, error) {
	p, err := cards.DecodeSavePayload(data)
	if err != nil {
		return beer.SavePayload{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidPostback, err)
	}
	if p.Action != beer.ActionSave {
		return beer.SavePayload{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownAction, p.Action)
	}
	return p, nil
}
