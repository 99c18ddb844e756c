package models

// NetworkConfig is the deployment configuration for a chain
type NetworkConfig struct {
	ChainID   int64  `json:"chainId"`
	Name      string `json:"name"`
	PriceFeed string `json:"priceFeed"`
	Mock      bool   `json:"mock"`
}
