package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"revistas_backend/internal/authz"
	"revistas_backend/internal/middleware"
	"revistas_backend/internal/services"
	"revistas_backend/pkg/utils"
)

// userMessages holds the user-facing text for specific service errors. The first
// match wins, so specific sentinels come before their categories.
var userMessages = []struct {
	err     error
	message string
}{
	{services.ErrInvalidQuantity, "Quantidade deve ser um número inteiro positivo"},
	{services.ErrEmptyOrder, "O pedido deve conter ao menos um item"},
	{services.ErrInvalidOrderStatus, "Status inválido"},
	{services.ErrPeriodClosed, "O período não está aberto para pedidos"},
	{services.ErrNoCongregation, "Usuário não está vinculado a uma congregação"},
	{services.ErrMagazineNotFound, "Revista não encontrada"},
	{services.ErrCombinationNotFound, "Combinação não encontrada"},
	{services.ErrOrderNotFound, "Pedido não encontrado"},
	{services.ErrPeriodNotFound, "Período não encontrado"},
	{services.ErrAreaNotFound, "Área não encontrada"},
	{services.ErrCongregationMissing, "Congregação não encontrada"},
	{services.ErrUserNotFound, "Usuário não encontrado"},
	{services.ErrOrderNotEditable, "Pedido só pode ser alterado enquanto estiver PENDENTE"},
	{services.ErrUsernameExists, "Nome de usuário já existe"},
	{services.ErrDuplicateCode, "Código já cadastrado"},
	{services.ErrInUse, "Registro está em uso"},
	{services.ErrNotAllowed, "Sem permissão para esta operação"},
	{services.ErrValidation, "Dados inválidos"},
	{services.ErrNotFound, "Registro não encontrado"},
	{services.ErrForbidden, "Acesso negado"},
	{services.ErrConflict, "Conflito de dados"},
	{services.ErrInvalidState, "Operação não permitida no estado atual"},
}

// respondServiceError maps the service error taxonomy onto HTTP. Conflicts and
// state errors answer 400; anything unclassified is logged and answers 500.
func respondServiceError(c *gin.Context, err error, logMessage string) {
	var status int
	var code string
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Usuário ou senha inválidos", ""))
		return
	case errors.Is(err, services.ErrValidation):
		status, code = http.StatusBadRequest, utils.ErrCodeValidationFailed
	case errors.Is(err, services.ErrNotFound):
		status, code = http.StatusNotFound, utils.ErrCodeNotFound
	case errors.Is(err, services.ErrForbidden):
		status, code = http.StatusForbidden, utils.ErrCodeForbidden
	case errors.Is(err, services.ErrConflict):
		status, code = http.StatusBadRequest, utils.ErrCodeConflict
	case errors.Is(err, services.ErrInvalidState):
		status, code = http.StatusBadRequest, utils.ErrCodeInvalidState
	default:
		utils.RespondInternalError(c, err, logMessage)
		return
	}

	message := ""
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			message = m.message
			break
		}
	}
	utils.LogDebug(logMessage, map[string]interface{}{"error": err.Error(), "status": status})
	utils.RespondWithError(c, utils.NewAPIError(status, code, message, err.Error()))
}

// bindJSON decodes the body into req and answers 400 on malformed input.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Requisição inválida", err.Error()))
		return false
	}
	return true
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := utils.StrToInt64(c.Param(name))
	if err != nil || id <= 0 {
		utils.RespondValidationFailed(c, "Identificador inválido", name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// queryID parses an optional positive integer query parameter.
func queryID(c *gin.Context, name string) (*int64, bool) {
	id, err := utils.OptionalInt64(c.Query(name))
	if err != nil || (id != nil && *id <= 0) {
		utils.RespondValidationFailed(c, "Parâmetro inválido: "+name, name+" must be a positive integer")
		return nil, false
	}
	return id, true
}

func principal(c *gin.Context) (authz.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Autenticação necessária", ""))
	}
	return p, ok
}
