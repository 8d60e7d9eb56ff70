package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/DRSN-tech/inventory/pkg/inventoryclient"
)

// API описывает операции сервера, нужные интерактивному режиму.
type API interface {
	ProductLister
	Categories(ctx context.Context) ([]inventoryclient.Category, error)
	CreateProduct(ctx context.Context, in inventoryclient.CreateProductInput) (string, error)
	DeleteProduct(ctx context.Context, id int64) (string, error)
}

const browseHelp = `Commands:
  n, next            next page
  p, prev            previous page
  g <page>           go to page
  s <text>           search by name (empty clears)
  c <id>             toggle category filter
  c                  clear category filter
  cats               list categories
  a, add             create product
  d <id>             delete product
  r                  refresh
  h, help            this help
  q, quit            exit`

// Browser реализует интерактивный цикл просмотра, фильтрации и редактирования списка.
type Browser struct {
	api    API
	view   *ListView
	form   *Form
	prompt *Prompter
	out    io.Writer

	categories []inventoryclient.Category
}

func NewBrowser(api API, in io.Reader, out io.Writer, limit int) *Browser {
	return &Browser{
		api:    api,
		view:   NewListView(limit),
		form:   NewForm(),
		prompt: NewPrompter(in, out),
		out:    out,
	}
}

func (b *Browser) View() *ListView { return b.view }

// Run работает, пока пользователь не выйдет, не закончится ввод или не отменится ctx.
func (b *Browser) Run(ctx context.Context) error {
	cats, err := b.api.Categories(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	b.categories = cats

	b.refresh(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := b.prompt.ReadLine("> ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		quit, err := b.exec(ctx, line)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// exec выполняет одну команду. Возвращает true, если нужно выйти.
func (b *Browser) exec(ctx context.Context, line string) (bool, error) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "":
		return false, nil
	case "q", "quit", "exit":
		return true, nil
	case "h", "help":
		fmt.Fprintln(b.out, browseHelp)
	case "n", "next":
		if !b.view.NextPage() {
			fmt.Fprintln(b.out, "Already on the last page")
			return false, nil
		}
		b.refresh(ctx)
	case "p", "prev":
		if !b.view.PrevPage() {
			fmt.Fprintln(b.out, "Already on the first page")
			return false, nil
		}
		b.refresh(ctx)
	case "g":
		page, err := strconv.Atoi(arg)
		if err != nil || !b.view.SetPage(page) {
			fmt.Fprintf(b.out, "No such page: %q\n", arg)
			return false, nil
		}
		b.refresh(ctx)
	case "s":
		b.view.SetSearch(arg)
		b.refresh(ctx)
	case "c":
		if arg == "" {
			b.view.ClearCategories()
			b.refresh(ctx)
			return false, nil
		}
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			fmt.Fprintf(b.out, "Invalid category id: %q\n", arg)
			return false, nil
		}
		b.view.ToggleCategory(id)
		b.refresh(ctx)
	case "cats":
		return false, RenderCategories(b.out, b.categories, b.view.CategoryIDs)
	case "r":
		b.refresh(ctx)
	case "a", "add":
		return false, b.create(ctx)
	case "d":
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			fmt.Fprintf(b.out, "Invalid product id: %q\n", arg)
			return false, nil
		}
		return false, b.delete(ctx, id)
	default:
		fmt.Fprintf(b.out, "Unknown command %q, type h for help\n", cmd)
	}

	return false, nil
}

func (b *Browser) refresh(ctx context.Context) {
	b.view.BeginLoad()
	_ = RenderList(b.out, b.view)

	// ошибка сохраняется во view и выводится при отрисовке
	_ = b.view.Refresh(ctx, b.api)
	_ = RenderList(b.out, b.view)
}

func (b *Browser) delete(ctx context.Context, id int64) error {
	ok, err := b.prompt.Confirm(fmt.Sprintf("Delete product %d?", id))
	if err != nil || !ok {
		return ignoreEOF(err)
	}

	msg, err := b.api.DeleteProduct(ctx, id)
	if err != nil {
		fmt.Fprintf(b.out, "Error: %s\n", Message(err))
		return nil
	}

	fmt.Fprintln(b.out, msg)
	b.refresh(ctx)
	return nil
}

// create заполняет форму и отправляет её, пока сервер не примет продукт или пользователь не откажется.
func (b *Browser) create(ctx context.Context) error {
	for {
		if err := FillForm(b.prompt, b.form, b.categories); err != nil {
			return ignoreEOF(err)
		}

		msg, err := b.api.CreateProduct(ctx, b.form.Input())
		if err == nil {
			fmt.Fprintln(b.out, msg)
			b.form.Reset()
			b.refresh(ctx)
			return nil
		}

		details := inventoryclient.FieldErrors(err)
		if details == nil {
			fmt.Fprintf(b.out, "Error: %s\n", Message(err))
			return nil
		}

		b.form.ApplyErrors(details)
		fmt.Fprintln(b.out, "You might be missing required fields:")
		_ = RenderFormErrors(b.out, b.form)

		retry, err := b.prompt.Confirm("Edit and retry?")
		if err != nil || !retry {
			return ignoreEOF(err)
		}
	}
}

// FillForm запрашивает поля формы; пустой ввод оставляет текущее значение.
func FillForm(p *Prompter, f *Form, categories []inventoryclient.Category) error {
	name, err := p.Ask("Name", f.Name)
	if err != nil {
		return err
	}
	f.Name = name

	desc, err := p.Ask("Description", f.Description)
	if err != nil {
		return err
	}
	f.Description = desc

	for {
		def := ""
		if f.Quantity > 0 {
			def = strconv.Itoa(f.Quantity)
		}

		qty, err := p.Ask("Quantity", def)
		if err != nil {
			return err
		}
		if f.SetQuantity(qty) {
			break
		}
		fmt.Fprintf(p.out, "Quantity is limited to %d digits\n", maxQuantityDigits)
	}

	if len(categories) > 0 {
		_ = RenderCategories(p.out, categories, f.CategoryIDs)
	}

	ids, err := p.Ask("Category ids (comma separated)", joinIDs(f.CategoryIDs))
	if err != nil {
		return err
	}

	parsed, err := ParseIDs(ids)
	if err != nil {
		fmt.Fprintln(p.out, err)
	}
	f.CategoryIDs = parsed

	return nil
}

// ParseIDs разбирает список id через запятую. Некорректные элементы пропускаются и попадают в ошибку.
func ParseIDs(s string) ([]int64, error) {
	var (
		ids []int64
		bad []string
	)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			bad = append(bad, part)
			continue
		}
		ids = append(ids, id)
	}

	if len(bad) > 0 {
		return ids, fmt.Errorf("ignored invalid ids: %s", strings.Join(bad, ", "))
	}

	return ids, nil
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}

	return strings.Join(parts, ",")
}

// Message возвращает текст ошибки для пользователя: сообщение сервера или текст транспортной ошибки.
func Message(err error) string {
	var apiErr *inventoryclient.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message == "" {
			return "Something went wrong"
		}
		return apiErr.Message
	}

	return err.Error()
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}
