package rbac

// RolePermissions is the default policy.
var RolePermissions = map[string][]string{
	"reviewer": {
		"quizzes:list",
		"results:view",
	},
	"admin": {
		"*", // everything
	},
}
