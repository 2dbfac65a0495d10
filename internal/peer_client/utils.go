package peer_client

import (
	"github.com/pion/webrtc/v4"

	"github.com/wavecall/relay/internal/api"
)

func webrtcConfiguration(config api.PeerConnectionConfig) webrtc.Configuration {
	var conf webrtc.Configuration
	for _, server := range config.IceServers {
		iceServer := webrtc.ICEServer{URLs: server.URLs}
		if server.Username != "" {
			iceServer.Username = server.Username
		}
		if server.Credential != "" {
			iceServer.Credential = server.Credential
		}
		conf.ICEServers = append(conf.ICEServers, iceServer)
	}
	return conf
}
