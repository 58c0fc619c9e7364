package animals

import "time"

// Species define as espécies canônicas.
// @Enum Dog, Cat, Other
type Species string

const (
	SpeciesDog   Species = "Dog"
	SpeciesCat   Species = "Cat"
	SpeciesOther Species = "Other"
)

// AgeBracket define a faixa etária canônica.
// @Enum Puppy, Young, Adult, Senior
type AgeBracket string

const (
	AgePuppy  AgeBracket = "Puppy"
	AgeYoung  AgeBracket = "Young"
	AgeAdult  AgeBracket = "Adult"
	AgeSenior AgeBracket = "Senior"
)

// Size define o porte canônico.
// @Enum Small, Medium, Large
type Size string

const (
	SizeSmall  Size = "Small"
	SizeMedium Size = "Medium"
	SizeLarge  Size = "Large"
)

// Gender define o sexo canônico.
// @Enum Male, Female
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Status é a máquina de estados do animal:
// available -> inProcess -> adopted, com inProcess -> available quando
// o pedido de adoção é rejeitado. adopted é terminal.
type Status string

const (
	StatusAvailable Status = "available"
	StatusInProcess Status = "inProcess"
	StatusAdopted   Status = "adopted"
)

// Photo descreve uma foto do animal no bucket.
type Photo struct {
	URL         string `json:"url"`
	IsMain      bool   `json:"isMain"`
	StoragePath string `json:"-"`
}

// Animal é o registro persistido, sempre com enums já canônicos.
type Animal struct {
	ID          string
	Name        string
	Species     string
	Breed       string
	Age         string
	Size        string
	Gender      string
	Description string
	City        string
	State       string

	// Saúde
	Vaccinated   bool
	Neutered     bool
	Dewormed     bool
	SpecialNeeds bool

	// Temperamento
	Friendly    bool
	Playful     bool
	Calm        bool
	Protective  bool
	Social      bool
	Independent bool
	Active      bool
	Docile      bool

	Photos   []Photo
	Status   Status
	Featured bool

	// Preenchidos por MarkAdopted.
	AdopterName    string
	AdopterContact string
	AdoptedAt      *time.Time

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MainPhotoURL devolve a foto principal, ou a primeira, ou vazio.
func (a Animal) MainPhotoURL() string {
	for _, p := range a.Photos {
		if p.IsMain {
			return p.URL
		}
	}
	if len(a.Photos) > 0 {
		return a.Photos[0].URL
	}
	return ""
}
