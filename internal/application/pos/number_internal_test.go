package pos

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestInvoiceNumber_Determinista(t *testing.T) {
	u := uuid.UUID{}
	n := invoiceNumber(time.UnixMilli(36*36), u)
	assert.Equal(t, "INV-100-0000", n)
}
