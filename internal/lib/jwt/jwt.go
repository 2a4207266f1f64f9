package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Methdul/fitgym-pro-sub000/internal/domain/models"
)

// NewToken generates a staff session JWT and returns tokenString and err
func NewToken(staff *models.Staff, secret []byte, duration time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["sub"] = staff.ID.String()
	claims["branch_id"] = staff.BranchID.String()
	claims["role"] = string(staff.Role)
	claims["exp"] = time.Now().Add(duration).Unix()

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
