package ports

import (
	"context"

	"github.com/mdjvazquez/finmks-v/internal/domain/repository"
)

// TxRunner ejecuta fn con repositorios atados a una misma transacción; si fn falla no se aplica nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepositories) error) error
}
