package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/mdjvazquez/finmks-v/internal/domain/permission"
)

// LocalPrincipal key del principal resuelto en c.Locals.
const LocalPrincipal = "principal"

// principalLoader lo implementa *session.Loader.
type principalLoader interface {
	Load(ctx context.Context, userID string) (*permission.Principal, error)
}

// SessionMiddleware carga el principal del usuario del token en cada petición.
// Debe usarse DESPUÉS de AuthMiddleware. Sobrescribe company_id y role con los valores de la base.
func SessionMiddleware(loader principalLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := loader.Load(c.Context(), GetUserID(c))
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalPrincipal, p)
		c.Locals(LocalCompanyID, p.CompanyID)
		if p.Role != nil {
			c.Locals(LocalRole, p.Role.Name())
		}
		return c.Next()
	}
}

// GetPrincipal devuelve el principal de la sesión o nil.
func GetPrincipal(c *fiber.Ctx) *permission.Principal {
	p, _ := c.Locals(LocalPrincipal).(*permission.Principal)
	return p
}
