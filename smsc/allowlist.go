package smsc

import (
	"fmt"
	"net"
	"strings"
)

// AllowList IP白名单，创建后只读。列表为空时拒绝所有地址
type AllowList struct {
	nets []*net.IPNet
}

// NewAllowList accepts single IPs and CIDR blocks.
func NewAllowList(entries []string) (*AllowList, error) {
	a := &AllowList{nets: make([]*net.IPNet, 0, len(entries))}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			_, ipNet, err := net.ParseCIDR(entry)
			if err != nil {
				return nil, fmt.Errorf("%w: accepted-ips: %v", ErrInvalidConfig, err)
			}
			a.nets = append(a.nets, ipNet)
			continue
		}

		ip := net.ParseIP(entry)
		if ip == nil {
			return nil, fmt.Errorf("%w: accepted-ips: invalid address %q", ErrInvalidConfig, entry)
		}
		// 单个IP转换为全掩码网段
		mask := net.CIDRMask(128, 128)
		if v4 := ip.To4(); v4 != nil {
			ip = v4
			mask = net.CIDRMask(32, 32)
		}
		a.nets = append(a.nets, &net.IPNet{IP: ip, Mask: mask})
	}
	return a, nil
}

func (a *AllowList) Permits(ip net.IP) bool {
	if a == nil || ip == nil {
		return false
	}
	for _, n := range a.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

func (a *AllowList) Len() int {
	if a == nil {
		return 0
	}
	return len(a.nets)
}

func peerIP(addr net.Addr) net.IP {
	switch v := addr.(type) {
	case nil:
		return nil
	case *net.TCPAddr:
		return v.IP
	default:
		host, _, err := net.SplitHostPort(addr.String())
		if err != nil {
			host = addr.String()
		}
		return net.ParseIP(host)
	}
}
