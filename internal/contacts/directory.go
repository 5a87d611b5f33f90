package contacts

// EmergencyLine is a toll-free number answered around the clock.
type EmergencyLine struct {
	Name        string `json:"name"`
	Number      string `json:"number"`
	Description string `json:"description"`
	Available   string `json:"available"`
}

// SupportService is an in-person or online support organization.
type SupportService struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Contact     string `json:"contact"`
	Channel     string `json:"channel"`
}

// Directory is the payload of GET /api/v1/contacts.
type Directory struct {
	Emergency []EmergencyLine  `json:"emergency"`
	Services  []SupportService `json:"services"`
}

var emergencyLines = []EmergencyLine{
	{Name: "Polícia Militar", Number: "190", Description: "Emergências policiais em geral", Available: "24 horas"},
	{Name: "Central de Atendimento à Mulher", Number: "180", Description: "Orientação e denúncias de violência contra a mulher", Available: "24 horas"},
	{Name: "Disque Direitos Humanos", Number: "100", Description: "Denúncias de violações de direitos humanos", Available: "24 horas"},
}

var supportServices = []SupportService{
	{Name: "Casa da Mulher Brasileira", Description: "Atendimento humanizado e acolhimento", Contact: "Centro de Referência", Channel: "Presencial"},
	{Name: "Defensoria Pública", Description: "Assistência jurídica gratuita", Contact: "Procure a unidade mais próxima", Channel: "Presencial/Online"},
	{Name: "CAPS - Centro de Atenção Psicossocial", Description: "Apoio psicológico especializado", Contact: "SUS - Sistema Único de Saúde", Channel: "Presencial"},
	{Name: "ONG Instituto Maria da Penha", Description: "Informações e orientações", Contact: "Site: institutomariadapenha.org.br", Channel: "Online"},
}

// NewDirectory returns a fresh copy of the directory so callers cannot mutate the shared tables.
func NewDirectory() Directory {
	return Directory{
		Emergency: append([]EmergencyLine(nil), emergencyLines...),
		Services:  append([]SupportService(nil), supportServices...),
	}
}
