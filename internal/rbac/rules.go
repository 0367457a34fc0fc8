package rbac

const (
	RoleStudent     = "student"
	RoleTeacher     = "teacher"
	RoleAdmin       = "admin"
	RoleContentTeam = "content_team"
)

const (
	PermContentCreate  = "content:create"
	PermContentVerify  = "content:verify"
	PermQuizAttempt    = "quiz:attempt"
	PermAssessment     = "assessment:write"
	PermChat           = "chat:use"
	PermUsersAdmin     = "users:admin"
	PermSeed           = "system:seed"
	PermChangePassword = "user:change_password"
)

var learner = []string{
	PermQuizAttempt,
	PermAssessment,
	PermChat,
	PermChangePassword,
}

var RolePermissions = map[string][]string{
	RoleStudent:     learner,
	RoleTeacher:     append([]string{PermContentCreate, PermContentVerify}, learner...),
	RoleContentTeam: append([]string{PermContentCreate}, learner...),
	RoleAdmin: {
		"*", // everything
	},
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
