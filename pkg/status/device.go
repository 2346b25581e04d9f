package status

import (
	"context"
	"fmt"
	"strings"

	"golang.zx2c4.com/wireguard/wgctrl"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

// DeviceFetcher reads WireGuard devices through wgctrl instead of shelling
// out, and renders them in the `wg show` text layout understood by Parse.
type DeviceFetcher struct {
	// Interface limits the output to one device. Empty means all devices.
	Interface string
}

func (f *DeviceFetcher) Fetch(_ context.Context) (string, error) {
	c, err := wgctrl.New()
	if err != nil {
		return "", &FetchError{Command: "wgctrl", Err: fmt.Errorf("create wireguard client: %w", err)}
	}
	defer c.Close()

	var devs []*wgtypes.Device
	if f.Interface != "" {
		dev, err := c.Device(f.Interface)
		if err != nil {
			return "", &FetchError{Command: "wgctrl", Err: fmt.Errorf("inspect wireguard device %q: %w", f.Interface, err)}
		}
		devs = []*wgtypes.Device{dev}
	} else {
		devs, err = c.Devices()
		if err != nil {
			return "", &FetchError{Command: "wgctrl", Err: fmt.Errorf("list wireguard devices: %w", err)}
		}
	}
	return FormatDevices(devs), nil
}

// FormatDevices renders devices the way `wg show` prints them. Peers without
// a known endpoint get no endpoint line.
func FormatDevices(devs []*wgtypes.Device) string {
	var b strings.Builder
	for i, dev := range devs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "interface: %s\n", dev.Name)
		fmt.Fprintf(&b, "  public key: %s\n", dev.PublicKey)
		if dev.ListenPort != 0 {
			fmt.Fprintf(&b, "  listening port: %d\n", dev.ListenPort)
		}
		for _, p := range dev.Peers {
			fmt.Fprintf(&b, "\npeer: %s\n", p.PublicKey)
			if p.Endpoint != nil {
				fmt.Fprintf(&b, "  endpoint: %s\n", p.Endpoint)
			}
			if len(p.AllowedIPs) > 0 {
				ips := make([]string, 0, len(p.AllowedIPs))
				for _, n := range p.AllowedIPs {
					ips = append(ips, n.String())
				}
				fmt.Fprintf(&b, "  allowed ips: %s\n", strings.Join(ips, ", "))
			}
			if !p.LastHandshakeTime.IsZero() {
				fmt.Fprintf(&b, "  latest handshake: %s\n", p.LastHandshakeTime.UTC().Format("2006-01-02T15:04:05Z"))
			}
		}
	}
	return b.String()
}
