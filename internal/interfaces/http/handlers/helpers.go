package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"myduka.backend/internal/domain/entities"
	domainerrors "myduka.backend/internal/domain/errors"
	"myduka.backend/internal/interfaces/http/middleware"
	"myduka.backend/pkg/utils"
)

// currentAccount returns the authenticated account or nil. Usecases reject a
// nil account themselves.
func currentAccount(c *gin.Context) *entities.User {
	account, _ := middleware.GetAccount(c)
	return account
}

func parseIDParam(c *gin.Context, name, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.Validation("Invalid " + label + " ID")
	}
	return id, nil
}

func parseStoreQuery(c *gin.Context) (*uuid.UUID, error) {
	storeID, err := utils.ParseOptionalUUID(c.Query("store_id"))
	if err != nil {
		return nil, domainerrors.Validation("Invalid store_id")
	}
	return storeID, nil
}

func paginationFromQuery(c *gin.Context) utils.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return utils.GetPaginationParams(page, limit)
}
