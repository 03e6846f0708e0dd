package request

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTransactionRequestValidate(t *testing.T) {
	valid := CreateTransactionRequest{
		Items: []SaleItemRequest{{ProductID: uuid.New(), Quantity: 2}},
	}
	assert.NoError(t, valid.Validate())

	empty := CreateTransactionRequest{}
	require.Error(t, empty.Validate())

	negative := decimal.NewFromInt(-1)
	category := enum.ProductCategory("wine")
	bad := CreateTransactionRequest{
		Items: []SaleItemRequest{
			{ProductID: uuid.Nil, Quantity: 1},
			{ProductID: uuid.New(), Quantity: 0},
			{ProductID: uuid.New(), Quantity: 1, UnitPrice: &negative, Category: &category},
		},
		EmployeeIDs: []uuid.UUID{uuid.Nil},
	}
	appErr := ValidationFailure(bad.Validate())
	assert.Equal(t, 400, appErr.Code)

	fields := make([]string, 0, len(appErr.Errors))
	for _, fe := range appErr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.Equal(t, []string{
		"employee_ids.0",
		"items.0.product_id",
		"items.1.quantity",
		"items.2.category",
		"items.2.unit_price",
	}, fields)
}

func TestSaleItemQuantityCap(t *testing.T) {
	atCap := SaleItemRequest{ProductID: uuid.New(), Quantity: entity.MaxLineQuantity}
	assert.NoError(t, atCap.Validate())

	over := CreateTransactionRequest{
		Items: []SaleItemRequest{{ProductID: uuid.New(), Quantity: math.MaxInt64}},
	}
	appErr := ValidationFailure(over.Validate())
	require.Len(t, appErr.Errors, 1)
	assert.Equal(t, "items.0.quantity", appErr.Errors[0].Field)
}

func TestUpdateUserRoleRequestValidate(t *testing.T) {
	assert.Error(t, (&UpdateUserRoleRequest{}).Validate())

	role := enum.RoleManager
	assert.NoError(t, (&UpdateUserRoleRequest{Role: &role}).Validate())

	wrong := enum.Role("owner")
	assert.Error(t, (&UpdateUserRoleRequest{Role: &wrong}).Validate())
}

func TestUpdateSettingsRequestValidate(t *testing.T) {
	ok := decimal.NewFromInt(10)
	assert.NoError(t, (&UpdateSettingsRequest{BonusPercentage: &ok}).Validate())

	tooHigh := decimal.NewFromInt(101)
	assert.Error(t, (&UpdateSettingsRequest{BonusPercentage: &tooHigh}).Validate())

	week := -1
	assert.Error(t, (&UpdateSettingsRequest{CurrentWeekID: &week}).Validate())
}

func TestCreateInvitationRequestValidate(t *testing.T) {
	mail := "not-an-email"
	req := CreateInvitationRequest{Role: enum.RoleEmployee, Email: &mail}
	assert.Error(t, req.Validate())

	mail = "new@tavern.test"
	assert.NoError(t, req.Validate())
}

func TestValidationFailureWithPlainError(t *testing.T) {
	appErr := ValidationFailure(assert.AnError)
	assert.Equal(t, 400, appErr.Code)
	assert.Empty(t, appErr.Errors)
}
