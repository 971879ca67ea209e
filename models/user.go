package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the user's platform role. It is a closed set: signup validates it
// and the auth middleware rejects tokens carrying anything else, so an
// authorization filter comparing against Admin can never be fooled by a typo.
type Role string

const (
	RoleSoldier      Role = "Soldier"
	RoleMunicipality Role = "Municipality"
	RoleDonor        Role = "Donor"
	RoleOrganization Role = "Organization"
	RoleBusiness     Role = "Business"
	RoleAdmin        Role = "Admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSoldier, RoleMunicipality, RoleDonor, RoleOrganization, RoleBusiness, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName            string             `bson:"firstName" json:"firstName"`
	LastName             string             `bson:"lastName" json:"lastName"`
	Passport             string             `bson:"passport" json:"passport"`
	Email                string             `bson:"email" json:"email"`
	Password             string             `bson:"password" json:"-"`
	Phone                string             `bson:"phone" json:"phone"`
	Type                 Role               `bson:"type" json:"type"`
	Nickname             string             `bson:"nickname" json:"nickname"`
	Bio                  string             `bson:"bio" json:"bio"`
	ProfileImage         string             `bson:"profileImage" json:"profileImage"`
	ReceiveNotifications bool               `bson:"receiveNotifications" json:"receiveNotifications"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
}
