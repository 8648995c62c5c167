package models

import "time"

type Owner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Restaurant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Owners    []Owner   `json:"owners"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r Restaurant) OwnerIDs() []string {
	out := make([]string, 0, len(r.Owners))
	for _, o := range r.Owners {
		out = append(out, o.ID)
	}
	return out
}
