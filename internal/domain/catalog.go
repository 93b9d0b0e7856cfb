package domain

// Справочные значения сессии
const (
	DefaultReturnURL = "https://merchant.example.com/deposit/return"
	DefaultCurrency  = "INR"
	DefaultCoin      = "USDT_TRX"
	DefaultPreset    = 60
	DefaultRate      = 83
	MinAmount        = 10
	MaxAmount        = 10000
)

// CoolingOptions - варианты охлаждения в минутах
var CoolingOptions = []int{5, 30, 60, 120, 1440}

// UPIBeneficiary - фиксированный получатель для оплаты через UPI
var UPIBeneficiary = Beneficiary{
	ID:                  "UPI-FIXED",
	DisplayName:         "Rapido Gate Collections",
	BankName:            "HDFC Bank",
	AccountNumberMasked: "rapidogate@hdfc",
	IFSC:                "HDFC0001234",
}

// DefaultBeneficiaries возвращает справочник банковских получателей
func DefaultBeneficiaries() []Beneficiary {
	return []Beneficiary{
		{
			ID:                  "BEN-001",
			DisplayName:         "Merchant Beneficiary - HDFC",
			BankName:            "HDFC Bank",
			AccountNumberMasked: "XXXXXX9012",
			IFSC:                "HDFC0001234",
		},
		{
			ID:                  "BEN-002",
			DisplayName:         "Merchant Beneficiary - ICICI",
			BankName:            "ICICI Bank",
			AccountNumberMasked: "XXXXXX1098",
			IFSC:                "ICIC0005678",
		},
		{
			ID:                  "BEN-003",
			DisplayName:         "Merchant Beneficiary - SBI",
			BankName:            "SBI",
			AccountNumberMasked: "XXXXXX7788",
			IFSC:                "SBIN0004321",
		},
	}
}
