package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Social struct {
	Youtube   string `bson:"youtube,omitempty"   json:"youtube,omitempty"`
	Facebook  string `bson:"facebook,omitempty"  json:"facebook,omitempty"`
	Twitter   string `bson:"twitter,omitempty"   json:"twitter,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
	Linkedin  string `bson:"linkedin,omitempty"  json:"linkedin,omitempty"`
}

type Experience struct {
	ID          string `bson:"id"                    json:"id"`
	Title       string `bson:"title"                 json:"title"`
	Company     string `bson:"company"               json:"company"`
	Location    string `bson:"location,omitempty"    json:"location,omitempty"`
	From        string `bson:"from"                  json:"from"`
	To          string `bson:"to,omitempty"          json:"to,omitempty"`
	Current     bool   `bson:"current"               json:"current"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

type Education struct {
	ID           string `bson:"id"                    json:"id"`
	School       string `bson:"school"                json:"school"`
	Degree       string `bson:"degree"                json:"degree"`
	FieldOfStudy string `bson:"fieldofstudy"          json:"fieldofstudy"`
	From         string `bson:"from"                  json:"from"`
	To           string `bson:"to,omitempty"          json:"to,omitempty"`
	Current      bool   `bson:"current"               json:"current"`
	Description  string `bson:"description,omitempty" json:"description,omitempty"`
}

type Profile struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"            json:"id"`
	User           primitive.ObjectID `bson:"user"                     json:"user"`
	Company        string             `bson:"company,omitempty"        json:"company,omitempty"`
	Website        string             `bson:"website,omitempty"        json:"website,omitempty"`
	Location       string             `bson:"location,omitempty"       json:"location,omitempty"`
	Bio            string             `bson:"bio,omitempty"            json:"bio,omitempty"`
	Status         string             `bson:"status"                   json:"status"`
	GithubUsername string             `bson:"githubusername,omitempty" json:"githubusername,omitempty"`
	Skills         []string           `bson:"skills"                   json:"skills"`
	Social         Social             `bson:"social"                   json:"social"`
	Experience     []Experience       `bson:"experience"               json:"experience"`
	Education      []Education        `bson:"education"                json:"education"`
	CreatedAt      time.Time          `bson:"created_at"               json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"               json:"updated_at"`
}

// ProfileInput is the partial update payload for the profile document.
// Empty fields are "absent": they never overwrite a previously set value.
type ProfileInput struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status"`
	GithubUsername string `json:"githubusername"`
	Skills         string `json:"skills"` // comma-delimited
	Youtube        string `json:"youtube"`
	Facebook       string `json:"facebook"`
	Twitter        string `json:"twitter"`
	Instagram      string `json:"instagram"`
	Linkedin       string `json:"linkedin"`
}

// Apply merges the present fields of in into p. The field list is fixed; no
// reflection. Absent (empty) keys leave the prior value untouched.
func (in ProfileInput) Apply(p *Profile) {
	if in.Company != "" {
		p.Company = in.Company
	}
	if in.Website != "" {
		p.Website = in.Website
	}
	if in.Location != "" {
		p.Location = in.Location
	}
	if in.Bio != "" {
		p.Bio = in.Bio
	}
	if in.Status != "" {
		p.Status = in.Status
	}
	if in.GithubUsername != "" {
		p.GithubUsername = in.GithubUsername
	}
	if in.Skills != "" {
		p.Skills = SplitSkills(in.Skills)
	}
	if in.Youtube != "" {
		p.Social.Youtube = in.Youtube
	}
	if in.Facebook != "" {
		p.Social.Facebook = in.Facebook
	}
	if in.Twitter != "" {
		p.Social.Twitter = in.Twitter
	}
	if in.Instagram != "" {
		p.Social.Instagram = in.Instagram
	}
	if in.Linkedin != "" {
		p.Social.Linkedin = in.Linkedin
	}
}

// SplitSkills normalizes a comma-delimited skills string into trimmed,
// non-empty tokens, order preserved.
func SplitSkills(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// AddExperience prepends e: the newest entry is first.
func (p *Profile) AddExperience(e Experience) {
	p.Experience = append([]Experience{e}, p.Experience...)
}

// RemoveExperience removes the first entry whose id equals id and reports
// whether anything was removed. An unknown id is a no-op.
func (p *Profile) RemoveExperience(id string) bool {
	for i, e := range p.Experience {
		if e.ID == id {
			p.Experience = append(p.Experience[:i], p.Experience[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Profile) AddEducation(e Education) {
	p.Education = append([]Education{e}, p.Education...)
}

func (p *Profile) RemoveEducation(id string) bool {
	for i, e := range p.Education {
		if e.ID == id {
			p.Education = append(p.Education[:i], p.Education[i+1:]...)
			return true
		}
	}
	return false
}
