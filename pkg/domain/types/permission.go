package types

import "fmt"

// PermissionEffect is the decision attached to an ACL resource on a role
type PermissionEffect string

const (
	PermissionAllow PermissionEffect = "allow"
	PermissionDeny  PermissionEffect = "deny"
)

// IsValid checks if the permission effect is valid
func (p PermissionEffect) IsValid() bool {
	return p == PermissionAllow || p == PermissionDeny
}

func (p PermissionEffect) String() string {
	return string(p)
}

// ParsePermissionEffect parses a string into a PermissionEffect
func ParsePermissionEffect(s string) (PermissionEffect, error) {
	effect := PermissionEffect(s)
	if !effect.IsValid() {
		return "", fmt.Errorf("invalid permission effect: %s", s)
	}
	return effect, nil
}

// OAAPermission is a canonical Veza OAA permission type
type OAAPermission string

const (
	OAADataRead     OAAPermission = "DataRead"
	OAADataWrite    OAAPermission = "DataWrite"
	OAADataCreate   OAAPermission = "DataCreate"
	OAADataDelete   OAAPermission = "DataDelete"
	OAAMetadataRead OAAPermission = "MetadataRead"
	OAANonData      OAAPermission = "NonData"
)

func (p OAAPermission) String() string {
	return string(p)
}
