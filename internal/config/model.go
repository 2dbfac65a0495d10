package config

import "github.com/wavecall/relay/internal/api"

type AppConfig struct {
	Server     ServerConfig     `json:"server" yaml:"server"`
	Security   SecurityConfig   `json:"security" yaml:"security"`
	Signalling SignallingConfig `json:"signalling" yaml:"signalling"`
	WebRTC     WebRTCConfig     `json:"webrtc" yaml:"webrtc"`
	Directory  DirectoryConfig  `json:"directory" yaml:"directory"`
}

type ServerConfig struct {
	Port             int `json:"port" yaml:"port"`
	PingIntervalMsec int `json:"pingIntervalMsec" yaml:"pingIntervalMsec"`
}

type SecurityConfig struct {
	// AdminCredential protects the admin REST API with basic auth. If nil the
	// admin API is open, which is only sensible on a private network.
	AdminCredential *string `json:"adminCredential" yaml:"adminCredential"`
	TLSCrtFile      *string `json:"tlsCrtFile" yaml:"tlsCrtFile"`
	TLSKeyFile      *string `json:"tlsKeyFile" yaml:"tlsKeyFile"`
}

type SignallingConfig struct {
	// RingingTimeoutMsec bounds how long an unanswered call may ring before
	// the sweep ends it with reason timeout.
	RingingTimeoutMsec int `json:"ringingTimeoutMsec" yaml:"ringingTimeoutMsec"`

	// ActiveTimeoutMsec ends active calls that outlive it. Zero disables the
	// check; it exists for transports that cannot signal peer loss themselves.
	ActiveTimeoutMsec int `json:"activeTimeoutMsec" yaml:"activeTimeoutMsec"`

	SweepIntervalMsec int `json:"sweepIntervalMsec" yaml:"sweepIntervalMsec"`

	// EndedRetentionMsec keeps terminal sessions in memory for the admin call
	// listing before garbage collection removes them.
	EndedRetentionMsec int `json:"endedRetentionMsec" yaml:"endedRetentionMsec"`
}

type WebRTCConfig struct {
	PeerConnectionConfig api.PeerConnectionConfig `json:"peerConnectionConfig" yaml:"peerConnectionConfig"`
}

type DirectoryConfig struct {
	// BaseURL of the directory service. Empty disables directory integration;
	// peer existence checks pass and call outcomes are not recorded.
	BaseURL     string  `json:"baseUrl" yaml:"baseUrl"`
	APIKey      *string `json:"apiKey" yaml:"apiKey"`
	TimeoutMsec int     `json:"timeoutMsec" yaml:"timeoutMsec"`
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Port:             8000,
			PingIntervalMsec: 30000,
		},
		Security: SecurityConfig{
			AdminCredential: nil,
			TLSCrtFile:      nil,
			TLSKeyFile:      nil,
		},
		Signalling: SignallingConfig{
			RingingTimeoutMsec: 45000,
			ActiveTimeoutMsec:  0,
			SweepIntervalMsec:  5000,
			EndedRetentionMsec: 600000,
		},
		WebRTC: WebRTCConfig{
			PeerConnectionConfig: api.DefaultPeerConnectionConfig(),
		},
		Directory: DirectoryConfig{
			BaseURL:     "",
			APIKey:      nil,
			TimeoutMsec: 2000,
		},
	}
}
