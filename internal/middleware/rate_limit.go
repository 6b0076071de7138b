package middleware

import (
	"context"
	"strconv"
	"time"

	"storefront_back_end/internal/errs"
	"storefront_back_end/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	CartMaxAdds = 20
	CartWindow  = time.Minute
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}

// CartRateLimit limite les ajouts au panier (anti-spam). Sans limiter (Redis absent), tout passe.
func CartRateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if limiter == nil || userID == "" {
			c.Next()
			return
		}

		ok, count, err := limiter.Allow(c.Request.Context(), "cart_add:"+userID, CartMaxAdds, CartWindow)
		if err != nil {
			log.Ctx(c.Request.Context()).Warn().Err(err).Msg("⚠️ Rate limit indisponible")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(CartMaxAdds))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(CartMaxAdds-count, 0), 10))
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(CartWindow.Seconds())))
			response.Abort(c, errs.Rule(errs.ErrTooManyRequests, "Trop d'ajouts au panier. Ralentissez un peu"))
			return
		}
		c.Next()
	}
}
