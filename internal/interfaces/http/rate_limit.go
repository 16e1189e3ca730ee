package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
)

// NewRateLimiter crea un limitador en memoria a partir del formato ulule ("10-M", "100-H").
func NewRateLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	return limiter.New(memory.NewStore(), rate), nil
}

// RateLimit limita por IP y ruta. Protege los endpoints de códigos de 4 dígitos y las credenciales.
func RateLimit(l *limiter.Limiter, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.IP() + "|" + c.Route().Path
		lc, err := l.Get(c.Context(), key)
		if err != nil {
			log.Error().Err(err).Str("ip", c.IP()).Msg("rate limit: no se pudo leer el contador")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
		}
		c.Set("X-RateLimit-Limit", strconv.FormatInt(lc.Limit, 10))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(lc.Remaining, 10))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(lc.Reset, 10))
		if lc.Reached {
			log.Warn().Str("ip", c.IP()).Str("path", c.Path()).Int64("limit", lc.Limit).Msg("rate limit alcanzado")
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas solicitudes, intente más tarde"})
		}
		return c.Next()
	}
}
