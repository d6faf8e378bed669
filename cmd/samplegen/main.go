// samplegen gera uma planilha de agendamentos de exemplo no formato exportado
// pelo sistema do laboratório, para testar o upload sem dados reais.
//
//	go run ./cmd/samplegen -o exemplo.xlsx -rows 12
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/xuri/excelize/v2"
)

var headers = []string{
	"Nome da Sala", "Nome do Paciente", "Data Início", "Data Fim",
	"Códigos dos Exames", "Nomes dos Exames", "Documentos do Paciente",
	"Contatos do Paciente", "Status de Confirmação", "Endereço de Coleta",
}

var nomes = []string{
	"Maria da Silva", "João Pereira", "Ana Beatriz Costa", "Carlos Eduardo Lima",
	"Fernanda Souza", "Pedro Henrique Alves", "Juliana Rocha", "Rafael Martins",
}

var enderecos = []string{
	"rua das flores, 123, copacabana",
	"av. atlântica, 456, apto 301, leme",
	"rua barata ribeiro, 789, copacabana",
	"rua visconde de pirajá, 250, ipanema",
}

var exames = [][2]string{
	{"HEM, GLI", "Hemograma, Glicemia"},
	{"TSH", "TSH"},
	{"HEM, COL, TRI", "Hemograma, Colesterol, Triglicerídeos"},
	{"URE, CRE", "Ureia, Creatinina"},
}

func main() {
	out := flag.String("o", "exemplo.xlsx", "arquivo de saída")
	rows := flag.Int("rows", 8, "quantidade de linhas de dados")
	carros := flag.Int("cars", 3, "quantidade de carros")
	flag.Parse()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		log.Fatal(err)
	}
	for i := 0; i < *rows; i++ {
		carro := i%*carros + 1
		hora := 7 + i/(*carros)
		ex := exames[i%len(exames)]
		row := []string{
			fmt.Sprintf("CARRO %d - ROTA %d", carro, carro),
			nomes[i%len(nomes)],
			fmt.Sprintf("02/01/2026 %02d:30:00", hora),
			fmt.Sprintf("02/01/2026 %02d:10:00", hora+1),
			ex[0],
			ex[1],
			fmt.Sprintf("CPF: %03d.%03d.%03d-%02d", 100+i, 200+i, 300+i, 10+i%80),
			fmt.Sprintf("Celular: (21) 9%04d-%04d", 8000+i, 1000+i),
			"Não Confirmado",
			enderecos[i%len(enderecos)],
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			log.Fatal(err)
		}
	}
	if err := f.SaveAs(*out); err != nil {
		log.Fatal(err)
	}
	log.Printf("planilha de exemplo gravada em %s (%d linhas, %d carros)", *out, *rows, *carros)
}
