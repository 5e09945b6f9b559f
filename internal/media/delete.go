package media

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// DeleteResult reports a best-effort removal. Callers log it; they never fail on it.
type DeleteResult struct {
	PublicID string
	Kind     Kind
	Err      error
}

func (r DeleteResult) OK() bool { return r.Err == nil }

// Log records the outcome; reason says why the asset was being removed.
func (r DeleteResult) Log(log *slog.Logger, reason string) {
	if log == nil {
		log = slog.Default()
	}
	if r.Err != nil {
		log.Warn("media delete failed", "public_id", r.PublicID, "kind", r.Kind.String(), "reason", reason, "err", r.Err)
		return
	}
	log.Info("media deleted", "public_id", r.PublicID, "kind", r.Kind.String(), "reason", reason)
}

// DeleteAsset removes a stored asset. It never returns an error; inspect the result instead.
func (c *Client) DeleteAsset(ctx context.Context, publicID string, kind Kind) DeleteResult {
	res := DeleteResult{PublicID: publicID, Kind: kind}
	switch {
	case publicID == "":
		res.Err = errors.New("empty public id")
	case !ownedBy(publicID, kind):
		res.Err = ErrForeignAsset
	default:
		res.Err = c.store.Delete(ctx, publicID)
	}
	return res
}

// SignedDownloadURL returns a time-limited URL for a stored asset. The signing secret stays
// inside the object store client.
func (c *Client) SignedDownloadURL(ctx context.Context, publicID string, kind Kind, ttl time.Duration, filename string) (string, error) {
	if !ownedBy(publicID, kind) {
		return "", ErrForeignAsset
	}
	return c.store.PresignGet(ctx, publicID, ttl, filename)
}
