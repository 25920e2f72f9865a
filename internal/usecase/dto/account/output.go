package accountdto

import "github.com/hashperks/loyalty-service/internal/domain"

type LoginOutput struct {
	Token string
	User  *domain.User
}
