package domain

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// AuthSession is the persisted login state. An empty token means
// unauthenticated.
type AuthSession struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
