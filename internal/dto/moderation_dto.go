package dto

type SetStatusRequest struct {
	Status             string `json:"status"`
	VerificationStatus string `json:"verification_status"`
	Note               string `json:"note"`
}

type ResubmitRequest struct {
	Note string `json:"note"`
}
