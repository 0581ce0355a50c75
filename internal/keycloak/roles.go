package keycloak

// adminRole is the client role that grants access to the admin panel.
const adminRole = "realm-admin"

// RoleMappings is the role-mappings endpoint response. Realm-level
// mappings are ignored; only client-scoped mappings count.
type RoleMappings struct {
	ClientMappings map[string]ClientMapping `json:"clientMappings"`
}

// ClientMapping lists the roles mapped to the user for one client.
type ClientMapping struct {
	Mappings []Role `json:"mappings"`
}

// Role is a single named role.
type Role struct {
	Name string `json:"name"`
}

// flattenClientRoles collapses every client's mappings into one set of
// role names.
func flattenClientRoles(rm RoleMappings) map[string]struct{} {
	roles := make(map[string]struct{})
	for _, client := range rm.ClientMappings {
		for _, role := range client.Mappings {
			roles[role.Name] = struct{}{}
		}
	}
	return roles
}
