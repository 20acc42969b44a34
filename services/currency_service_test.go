// services/currency_service_test.go
package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-reservation/services"
)

func TestCurrencyRates(t *testing.T) {
	svc := services.NewCurrencyService()

	rate, err := svc.Rate("USD")
	require.NoError(t, err)
	assert.Equal(t, 1.0, rate)

	rate, err = svc.Rate("KHR")
	require.NoError(t, err)
	assert.Equal(t, 4100.0, rate)

	_, err = svc.Rate("EUR")
	assert.ErrorIs(t, err, services.ErrUnsupportedCurrency)

	assert.True(t, svc.Supported("KHR"))
	assert.False(t, svc.Supported("THB"))
}
