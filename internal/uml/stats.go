package uml

// Stats summarizes a finalized entity list.
type Stats struct {
	Classes    int `json:"classes"`
	Interfaces int `json:"interfaces"`
	Records    int `json:"records"`
	Structs    int `json:"structs"`
	Members    int `json:"members"`
}

// Summarize counts entities per kind and the total number of members.
func Summarize(entities []Entity) Stats {
	var s Stats
	for _, e := range entities {
		switch e.Kind {
		case KindInterface:
			s.Interfaces++
		case KindRecord:
			s.Records++
		case KindStruct:
			s.Structs++
		default:
			s.Classes++
		}
		s.Members += len(e.Members)
	}
	return s
}
