package service

import (
	"context"
	"errors"
	"net/http"
)

// ClosePosition закрывает позицию на бирже целиком по её positionId.
// Ручной инструмент для сверки, вебхуки им не пользуются.
func (c *Client) ClosePosition(ctx context.Context, positionID string) error {
	if positionID == "" {
		return errors.New("ClosePosition: empty positionId")
	}
	_, err := c.do(ctx, http.MethodPost, pathClosePosition, map[string]string{
		"positionId": positionID,
	})
	return err
}
