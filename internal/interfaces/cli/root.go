// Package cli define los comandos de la consola de administración. Todos hablan
// con la API REST a través de apiclient; la consola nunca toca la base de datos.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/ventas-admin/internal/application/dto"
	"github.com/jhoicas/ventas-admin/internal/application/resource"
	"github.com/jhoicas/ventas-admin/internal/infrastructure/apiclient"
	"github.com/jhoicas/ventas-admin/pkg/logger"
)

// App dependencias compartidas por los comandos.
type App struct {
	Client *apiclient.Client
	Log    *logger.Logger
	In     io.Reader
	Out    io.Writer
	Now    func() time.Time

	lines *bufio.Scanner
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// readLine lee una línea de la entrada; false al llegar al final.
func (a *App) readLine() (string, bool) {
	if a.lines == nil {
		a.lines = bufio.NewScanner(a.In)
	}
	if !a.lines.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.lines.Text()), true
}

func (a *App) prompt(label string) (string, bool) {
	fmt.Fprint(a.Out, label)
	return a.readLine()
}

// confirmDelete pide confirmación antes de borrar salvo que se pase --yes.
// Solo "s", "si", "sí", "y" o "yes" confirman; el final de la entrada cuenta como no.
func (a *App) confirmDelete(cmd *cobra.Command, what string) bool {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true
	}
	answer, ok := a.prompt(fmt.Sprintf("¿Eliminar %s? [s/N]: ", what))
	if !ok {
		fmt.Fprintln(a.Out)
	}
	switch strings.ToLower(answer) {
	case "s", "si", "sí", "y", "yes":
		return true
	}
	fmt.Fprintln(a.Out, "Cancelado")
	return false
}

func addYesFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("yes", "y", false, "no pedir confirmación")
}

// productCode normaliza un código como lo guarda la API.
func productCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NewRootCommand arma el árbol de comandos.
func NewRootCommand(app *App) *cobra.Command {
	if app.Log == nil {
		app.Log = logger.Nop()
	}
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Consola de administración de ventas",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(app.Out)
	root.SetIn(app.In)
	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newCustomersCmd(app),
		newProductsCmd(app),
		newSalesCmd(app),
		newImportCmd(app),
		newSummaryCmd(app),
	)
	return root
}

type listFlags struct {
	page   int
	limit  int
	search string
}

func (f *listFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", 1, "página")
	cmd.Flags().IntVar(&f.limit, "limit", dto.DefaultLimit, "registros por página (máx. 100)")
	cmd.Flags().StringVar(&f.search, "search", "", "texto a buscar")
}

// fetchPage carga una página a través del store del recurso.
func fetchPage[T any, ID comparable, C any, U any](cmd *cobra.Command, app *App, name string, svc resource.Service[T, ID, C, U], f listFlags) (*dto.Page[T], error) {
	store := resource.NewStore[T, ID, C, U](name, svc, f.limit, app.Log)
	if err := store.SetParams(cmd.Context(), resource.Params{Page: f.page, PageSize: f.limit, Search: f.search}); err != nil {
		return nil, err
	}
	st := store.State()
	return &dto.Page[T]{Data: st.Items, Total: st.Total, Page: st.Params.Page, Limit: st.Params.PageSize}, nil
}

// optionalString devuelve el valor del flag solo si el usuario lo indicó.
func optionalString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}
