package magento

// companyQuery renders as:
//
//	customer { email firstname lastname }
//	company { id name legal_name email company_admin { ... }
//	  structure { items { id parent_id entity { __typename ... on Customer {...} ... on CompanyTeam {...} } } } }
type companyQuery struct {
	Customer struct {
		Email     string
		Firstname string
		Lastname  string
	}
	Company struct {
		ID           string `graphql:"id"`
		Name         string
		LegalName    string `graphql:"legal_name"`
		Email        string
		CompanyAdmin *struct {
			Email     string
			Firstname string
			Lastname  string
		} `graphql:"company_admin"`
		Structure struct {
			Items []structureItemQuery
		}
	}
}

type structureItemQuery struct {
	ID       string `graphql:"id"`
	ParentID string `graphql:"parent_id"`
	Entity   *struct {
		Typename string           `graphql:"__typename"`
		Customer customerFragment `graphql:"... on Customer"`
		Team     teamFragment     `graphql:"... on CompanyTeam"`
	}
}

type customerFragment struct {
	Email     string
	Firstname string
	Lastname  string
	JobTitle  string  `graphql:"job_title"`
	Telephone string
	Status    *string
	Role      *struct {
		ID   string `graphql:"id"`
		Name string
	}
	Team *struct {
		ID          string `graphql:"id"`
		Name        string
		StructureID string `graphql:"structure_id"`
	}
}

type teamFragment struct {
	ID          string `graphql:"id"`
	Name        string
	Description string
}

func (q *companyQuery) toData() *GraphQLData {
	data := &GraphQLData{
		Customer: GraphQLCustomer{
			Email:     q.Customer.Email,
			Firstname: q.Customer.Firstname,
			Lastname:  q.Customer.Lastname,
		},
		Company: GraphQLCompany{
			ID:        q.Company.ID,
			Name:      q.Company.Name,
			LegalName: q.Company.LegalName,
			Email:     q.Company.Email,
		},
	}
	if admin := q.Company.CompanyAdmin; admin != nil {
		data.Company.CompanyAdmin = GraphQLCustomer{
			Email:     admin.Email,
			Firstname: admin.Firstname,
			Lastname:  admin.Lastname,
		}
	}

	for _, item := range q.Company.Structure.Items {
		out := StructureItem{ID: item.ID, ParentID: item.ParentID}
		if item.Entity == nil {
			data.Company.Items = append(data.Company.Items, out)
			continue
		}

		out.Typename = item.Entity.Typename
		switch out.Typename {
		case "Customer":
			cf := item.Entity.Customer
			c := &StructureCustomer{
				Email:     cf.Email,
				Firstname: cf.Firstname,
				Lastname:  cf.Lastname,
				JobTitle:  cf.JobTitle,
				Telephone: cf.Telephone,
				Status:    cf.Status,
			}
			if cf.Role != nil {
				c.Role = &StructureRole{ID: cf.Role.ID, Name: cf.Role.Name}
			}
			if cf.Team != nil {
				c.Team = &StructureTeam{ID: cf.Team.ID, Name: cf.Team.Name, StructureID: cf.Team.StructureID}
			}
			out.Customer = c
		case "CompanyTeam":
			tf := item.Entity.Team
			out.Team = &StructureTeam{ID: tf.ID, Name: tf.Name, Description: tf.Description}
		}
		data.Company.Items = append(data.Company.Items, out)
	}

	return data
}
