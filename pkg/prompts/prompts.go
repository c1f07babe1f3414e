// Package prompts builds the static instruction prompt handed to the LLM
// for SQL generation. The template is fixed at startup; only the
// conversation history and the question are interpolated.
package prompts

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/neurovia/neurovia-engine/pkg/conversation"
	"github.com/neurovia/neurovia-engine/pkg/schema"
)

// SystemMessage frames every generation request.
const SystemMessage = "Eres un asistente experto en SQL para una base de datos MySQL de ventas retail. Respondes unicamente con SQL de lectura (SELECT), sin explicaciones."

const promptTemplate = `Trabajas sobre una unica tabla desnormalizada de ventas. No existen otras tablas ni se permiten JOIN.

Esquema de la tabla {{.Table}}:
{{.Schema}}

Reglas de negocio:
- FECHA es un entero con formato YYYYMMDD (por ejemplo 20250831). Compara fechas con operadores numericos.
- UNIDADES es un entero con signo: valores negativos son devoluciones.
- INGRESOS y COSTOS estan en la moneda de la fila (columna MONEDA: CLP, PEN, BOB o USD). Nunca sumes montos de monedas distintas sin filtrar MONEDA.
- ENTIDAD es el pais de la venta: CL, PE o BO.
- El margen se calcula como (INGRESOS - COSTOS).
- Los centros de distribucion comparten la columna DESC_TIENDA pero no son tiendas.
- Los usuarios escriben nombres de tiendas y marcas de forma informal o parcial; usa condiciones LIKE '%...%' para interpretarlos.
- No inventes columnas ni datos.

Ejemplos:

Pregunta: cual es la tienda que mas ha vendido?
SQL: SELECT DESC_TIENDA, SUM(INGRESOS) AS total_ventas FROM {{.Table}} GROUP BY DESC_TIENDA ORDER BY total_ventas DESC LIMIT 1;

Pregunta: cuales son los articulos mas vendidos?
SQL: SELECT DESC_ARTICULO, SUM(UNIDADES) AS cantidad FROM {{.Table}} GROUP BY DESC_ARTICULO ORDER BY cantidad DESC LIMIT 10;

Pregunta: que canal tiene mas ingresos en CHILE (ENTIDAD = 'CL')?
SQL: SELECT DESC_CANAL, SUM(INGRESOS) AS total FROM {{.Table}} WHERE ENTIDAD = 'CL' GROUP BY DESC_CANAL ORDER BY total DESC LIMIT 1;
{{if .History}}
Conversacion previa:
{{.History}}{{end}}
Ahora responde esta nueva pregunta:
Pregunta: {{.Question}}

SQL:`

var sqlPrompt = template.Must(template.New("sql").Parse(promptTemplate))

// BuildPrompt renders the generation prompt for a resolved question,
// prepending up to the retained conversation history.
func BuildPrompt(question string, history []conversation.Exchange) (string, error) {
	var hist strings.Builder
	for _, ex := range history {
		fmt.Fprintf(&hist, "Pregunta anterior: %s\nSQL generado: %s\n", ex.Question, ex.SQL)
	}

	var b strings.Builder
	err := sqlPrompt.Execute(&b, struct {
		Table    string
		Schema   string
		History  string
		Question string
	}{
		Table:    schema.FactTable,
		Schema:   schemaDescription(),
		History:  hist.String(),
		Question: question,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return b.String(), nil
}

// schemaDescription renders one line per column with its semantic tag.
func schemaDescription() string {
	var b strings.Builder
	for _, col := range schema.Columns {
		fmt.Fprintf(&b, "- %s (%s)\n", col.Name, col.Tag)
	}
	return strings.TrimRight(b.String(), "\n")
}
