package domain

// Role is the authorization level of an account
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// SubscriptionStatus is the billing tier of an account
type SubscriptionStatus string

const (
	SubscriptionFree    SubscriptionStatus = "free"
	SubscriptionPremium SubscriptionStatus = "premium"
	SubscriptionTrial   SubscriptionStatus = "trial"
)

// MaxRecentActivity bounds User.RecentActivity
const MaxRecentActivity = 5

// RecentActivity is one entry of the "continue where you left off" list
type RecentActivity struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Path      string `json:"path"`
	Type      string `json:"type"` // quiz, guide or game
	Timestamp int64  `json:"timestamp"`
}

// Profile is everything about a user that may leave the server
type Profile struct {
	ID                 string             `json:"id"`
	FullName           string             `json:"fullName"`
	Email              string             `json:"email"`
	Phone              string             `json:"phone,omitempty"`
	EducationalLevel   string             `json:"educationalLevel,omitempty"`
	State              string             `json:"state,omitempty"`
	Institution        string             `json:"institution,omitempty"`
	Role               Role               `json:"role"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus"`
	CreatedAt          string             `json:"createdAt"`
	Streak             int                `json:"streak"`
	LastPracticeDate   string             `json:"lastPracticeDate"`
	RecentActivity     []RecentActivity   `json:"recentActivity"`
}

// User is the stored account record. Password holds the bcrypt hash.
type User struct {
	Profile
	Password string `json:"password"`
}

// Public strips the password hash
func (u *User) Public() Profile {
	p := u.Profile
	if p.RecentActivity == nil {
		p.RecentActivity = []RecentActivity{}
	}
	return p
}

// TokenPayload is the identity carried by an access token
type TokenPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u *User) TokenPayload() TokenPayload {
	return TokenPayload{ID: u.ID, Email: u.Email, Role: u.Role}
}
