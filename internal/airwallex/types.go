package airwallex

import "time"

type authResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type createAccountRequest struct {
	AccountDetails     accountDetails     `json:"account_details"`
	CustomerAgreements customerAgreements `json:"customer_agreements"`
	PrimaryContact     primaryContact     `json:"primary_contact"`
}

type accountDetails struct {
	BusinessDetails businessDetails `json:"business_details"`
}

type businessDetails struct {
	BusinessName string `json:"business_name"`
	PhoneNumber  string `json:"phone_number"`
}

type customerAgreements struct {
	AgreedToDataUsage          bool `json:"agreed_to_data_usage"`
	AgreedToTermsAndConditions bool `json:"agreed_to_terms_and_conditions"`
}

type primaryContact struct {
	Email string `json:"email"`
}

type createAccountResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// FileDescriptor is the provider's record for an uploaded file.
type FileDescriptor struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size,omitempty"`
}

// DownloadLink is a short-lived URL for fetching an uploaded file back.
type DownloadLink struct {
	FileID    string    `json:"file_id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
