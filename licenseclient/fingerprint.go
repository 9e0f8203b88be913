package licenseclient

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"os"
)

// Fingerprint derives a stable device fingerprint from the first non-loopback
// MAC address and the hostname, hashed with SHA-256. The value identifies a
// device slot, it is not tamper-proof.
func Fingerprint() string {
	mac := primaryMAC()
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown-host"
	}

	if mac == "" {
		return sha256Hex("fallback-hwid")
	}
	return sha256Hex(fmt.Sprintf("%s-%s", mac, host))
}

// primaryMAC returns the hardware address of the first non-loopback interface
// that has one, or an empty string.
func primaryMAC() string {
	interfaces, err := net.Interfaces()
	if err != nil {
		return ""
	}
	for _, iface := range interfaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if len(iface.HardwareAddr) > 0 {
			return iface.HardwareAddr.String()
		}
	}
	return ""
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
