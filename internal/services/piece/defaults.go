package piece

import "github.com/rajivgeraev/numisma-api/internal/models"

// defaultPieces - экземпляры, которые всегда присутствуют в каталоге.
// Сравниваются по названию, ID и время назначаются при вставке.
var defaultPieces = []models.Piece{
	{
		Name:              "1 Abbasi - Abbas I Safavi",
		Type:              models.PieceTypeCoin,
		Country:           "Irán",
		Year:              1588,
		ConservationState: models.ConservationGood,
		ImageURL:          "https://en.numista.com/catalogue/photos/iran/1021-180.jpg",
		Description:       "Plata, 7,65 g, 22,5 mm. Abbas I (1588-1629). Valor: 4 Shahi. Ref: Album Islamic# 2634.4, KM# 114",
	},
	{
		Name:              "1 Ducat - Francis Joseph Maximillian",
		Type:              models.PieceTypeCoin,
		Country:           "Bohemia",
		Year:              1794,
		ConservationState: models.ConservationVeryGood,
		ImageURL:          "https://en.numista.com/catalogue/photos/lobkowicz_counts/696535926935a4.93482598-180.jpg",
		Description:       "Oro 986, 3,5 g, 20,6 mm. Condado de Lobkowitz, Reino de Bohemia. Ref: KM# 12, Don# 3562",
	},
	{
		Name:              "100 Dollars - State of Nebraska",
		Type:              models.PieceTypeBanknote,
		Country:           "Estados Unidos",
		Year:              2022,
		ConservationState: models.ConservationExcellent,
		ImageURL:          "https://en.numista.com/catalogue/photos/etats-unis/68b6f41a4eb4f2.20543512-180.jpg",
		Description:       "Billete de fantasía. Papel, 179,50 × 76,20 mm.",
	},
	{
		Name:              "50 Roubles",
		Type:              models.PieceTypeCoin,
		Country:           "Rusia",
		Year:              2008,
		ConservationState: models.ConservationExcellent,
		ImageURL:          "https://en.numista.com/catalogue/photos/russie/661d95d833b9e1.82165014-180.jpg",
		Description:       "Oro 999, 7,89 g, 22,60 mm, grosor 1,30 mm. Moneda no circulante. Ref: Y# 1141, CBR# 5216-0067",
	},
	{
		Name:              "25 Céntimos - Torvizcón",
		Type:              models.PieceTypeBanknote,
		Country:           "España",
		Year:              1936,
		ConservationState: models.ConservationFair,
		ImageURL:          "https://en.numista.com/catalogue/photos/torvizcon_notgeld/6584741678b0f4.67740389-180.jpg",
		Description:       "Billete de emergencia. Papel, 99 × 55 mm. Municipio de Torvizcón, Segunda República (1936-1939).",
	},
	{
		Name:              "Medal - Baudoin I and Fabiola",
		Type:              models.PieceTypeCoin,
		Country:           "Bélgica",
		Year:              1992,
		ConservationState: models.ConservationExcellent,
		ImageURL:          "https://en.numista.com/catalogue/photos/belgique/60620bbaf12e29.27490209-180.jpg",
		Description:       "Medalla conmemorativa. Plata 950, 6,45 g, 21 mm.",
	},
	{
		Name:              "10 Céntimos - San Miguel de Salinas",
		Type:              models.PieceTypeBanknote,
		Country:           "España",
		Year:              1937,
		ConservationState: models.ConservationFair,
		ImageURL:          "https://en.numista.com/catalogue/photos/san_miguel_de_salinas_municipality_notgeld/64ea3f732dc3a4.53962074-180.jpg",
		Description:       "Billete de emergencia. Papel, 93 × 62 mm. Municipio San Miguel de Salinas. Ref: Gari Mon# 1308-D",
	},
	{
		Name:              "Nummus - Constantius Gallus",
		Type:              models.PieceTypeCoin,
		Country:           "Imperio Romano",
		Year:              351,
		ConservationState: models.ConservationPoor,
		ImageURL:          "https://en.numista.com/catalogue/photos/rome/65e8d46b626fb2.31295800-180.jpg",
		Description:       "Bronce, 5,14 g, 19,89 mm. Nummus/Follis. Imperio Romano (351-355). Ref: RIC VIII# 117",
	},
	{
		Name:              "10 Roubles",
		Type:              models.PieceTypeCoin,
		Country:           "Rusia",
		Year:              2020,
		ConservationState: models.ConservationExcellent,
		ImageURL:          "https://en.numista.com/catalogue/photos/russie/651a9d595c2d15.03741319-180.jpg",
		Description:       "Bimetálica (acero chapado en níquel y latón), 7,9 g, 27 mm. Moneda conmemorativa circulante. Ref: CBR# 5714-0070",
	},
	{
		Name:              "1 Peso",
		Type:              models.PieceTypeCoin,
		Country:           "Chile",
		Year:              1932,
		ConservationState: models.ConservationGood,
		ImageURL:          "https://en.numista.com/catalogue/photos/chili/1234-180.jpg",
		Description:       "Vellón (plata 400), 6 g, 26 mm, grosor 1,5 mm. República de Chile. Ref: KM# 174",
	},
	{
		Name:              "Görlitz Shekel",
		Type:              models.PieceTypeCoin,
		Country:           "Israel",
		Year:              1990,
		ConservationState: models.ConservationVeryGood,
		ImageURL:          "https://en.numista.com/catalogue/photos/israel/6062c62d9e0178.35673332-180.jpg",
		Description:       "Ficha/token. Latón de níquel, 12,21 g, 34,31 mm, grosor 2,35 mm. Año estimado.",
	},
}
