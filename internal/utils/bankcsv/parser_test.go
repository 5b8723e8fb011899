package bankcsv_test

import (
	"testing"
	"time"

	"github.com/planday-app/organizer_backend/internal/apperrors"
	"github.com/planday-app/organizer_backend/internal/utils/bankcsv"
	"github.com/planday-app/organizer_backend/internal/utils/merchant"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHeader = "Дата i час операції,Деталі операції,Сума в валюті картки,Валюта картки"

func TestParse_SingleRow(t *testing.T) {
	content := sampleHeader + "\n" +
		`"31.01.2024 10:00:00","STARBUCKS KYIV #4521","-149,00",UAH`

	res, err := bankcsv.Parse([]byte(content), "UAH")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, 0, res.SkippedRows)

	txn := res.Transactions[0]
	assert.Equal(t, time.Date(2024, time.January, 31, 10, 0, 0, 0, time.UTC), txn.Date)
	assert.Equal(t, "STARBUCKS KYIV #4521", txn.Merchant)
	assert.Equal(t, "starbucks", merchant.Normalize(txn.Merchant))
	assert.True(t, txn.Amount.Equal(decimal.NewFromFloat(-149.0)))
	assert.Equal(t, "UAH", txn.CurrencyCode)
	assert.True(t, txn.IsExpense())
}

func TestParse_QuotedCommaDoesNotSplit(t *testing.T) {
	content := "Date,Description,Amount\n" +
		`01.02.2024 08:30:00,"ACME, INC",-50.00`

	res, err := bankcsv.Parse([]byte(content), "UAH")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "ACME, INC", res.Transactions[0].Merchant)
}

func TestParse_HeaderFallsBackToPositions(t *testing.T) {
	// No recognizable header fragments: columns default to 0/1/2.
	content := "colA,colB,colC\n" +
		"15.03.2024 12:00:00,SILPO,-320.50"

	res, err := bankcsv.Parse([]byte(content), "UAH")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "SILPO", res.Transactions[0].Merchant)
	assert.True(t, res.Transactions[0].Amount.Equal(decimal.NewFromFloat(-320.5)))
}

func TestParse_SkipsBadRows(t *testing.T) {
	content := "Date,Description,Amount\n" +
		"31/01/2024,BAD DATE,-10.00\n" + // wrong date format
		"01.02.2024 09:00:00,,-10.00\n" + // empty merchant
		"01.02.2024 09:00:00,ZERO,0\n" + // zero amount
		"01.02.2024 09:00:00,NOT A NUMBER,abc\n" + // bad amount
		"02.02.2024 09:00:00,GOOD,-25.00"

	res, err := bankcsv.Parse([]byte(content), "UAH")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, 4, res.SkippedRows)
	assert.Equal(t, "GOOD", res.Transactions[0].Merchant)
}

func TestParse_PreservesRowOrder(t *testing.T) {
	content := "Date,Description,Amount\n" +
		"03.01.2024 10:00:00,THIRD,-3.00\n" +
		"01.01.2024 10:00:00,FIRST,-1.00\n" +
		"02.01.2024 10:00:00,SECOND,-2.00"

	res, err := bankcsv.Parse([]byte(content), "UAH")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 3)
	assert.Equal(t, "THIRD", res.Transactions[0].Merchant)
	assert.Equal(t, "FIRST", res.Transactions[1].Merchant)
	assert.Equal(t, "SECOND", res.Transactions[2].Merchant)
}

func TestParse_AmountLocalization(t *testing.T) {
	content := "Date,Description,Amount\n" +
		`01.02.2024 10:00:00,RENT,"-12 500,00 ₴"` + "\n" +
		`02.02.2024 10:00:00,SALARY,"1,250.75"`

	res, err := bankcsv.Parse([]byte(content), "UAH")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 2)
	assert.True(t, res.Transactions[0].Amount.Equal(decimal.NewFromFloat(-12500.0)))
	assert.True(t, res.Transactions[1].Amount.Equal(decimal.NewFromFloat(1250.75)))
	assert.False(t, res.Transactions[1].IsExpense())
}

func TestParse_CarriesRawColumns(t *testing.T) {
	content := sampleHeader + "\n" +
		`"31.01.2024 10:00:00","NETFLIX.COM","-199,00",UAH`

	res, err := bankcsv.Parse([]byte(content), "UAH")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	raw := res.Transactions[0].RawColumns
	assert.Equal(t, "NETFLIX.COM", raw["Деталі операції"])
	assert.Equal(t, "-199,00", raw["Сума в валюті картки"])
}

func TestParse_InvalidEncoding(t *testing.T) {
	_, err := bankcsv.Parse([]byte{0xff, 0xfe, 0x00, 0xc3}, "UAH")
	assert.ErrorIs(t, err, apperrors.ErrInvalidEncoding)
}

func TestParse_EmptyFile(t *testing.T) {
	_, err := bankcsv.Parse([]byte("   \n \n"), "UAH")
	assert.ErrorIs(t, err, apperrors.ErrUnparsableFile)
}
