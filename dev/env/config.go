package devenv

// CCAPITestConfig is the account used by the live tests, it is read from
// dev/.state/ccapi_config.json.
type CCAPITestConfig struct {
	BaseUrl  string `json:"base_url"`
	Username string `json:"username"`
	Password string `json:"password"`
	BrandID  int    `json:"brand_id"`

	// a range that the live tests may read from but never modify
	TargetRangeID int `json:"target_range_id"`
}
