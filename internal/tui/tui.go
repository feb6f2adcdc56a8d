package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"github.com/rajeshprivate007/taskflow-frontend/internal/api"
	"github.com/rajeshprivate007/taskflow-frontend/internal/model"
	"github.com/rajeshprivate007/taskflow-frontend/internal/session"
	"github.com/rajeshprivate007/taskflow-frontend/internal/todo"
	"github.com/rajeshprivate007/taskflow-frontend/internal/view"
)

const (
	viewHeader = "header"
	viewTasks  = "tasks"
	viewStats  = "stats"
	viewFooter = "footer"
	viewSearch = "search"
	viewAdd    = "add"
	viewHelp   = "help"
)

type UI struct {
	sess  *session.Store
	todos *todo.Store
	gui   *gocui.Gui

	visible       []model.Task
	selected      int
	showCompleted bool

	searchActive bool
	addActive    bool
	helpActive   bool
	status       string
}

func Run(sess *session.Store, todos *todo.Store) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := &UI{
		sess:          sess,
		todos:         todos,
		gui:           gui,
		showCompleted: true,
	}

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}
	ui.reloadAll()

	if err := gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}

	return nil
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	if err := gui.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, u.quit); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, 'q', gocui.ModNone, u.quit); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, 'r', gocui.ModNone, u.reload); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, 'a', gocui.ModNone, u.startAdd); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, 'x', gocui.ModNone, u.toggleTask); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, 'd', gocui.ModNone, u.deleteTask); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, 'v', gocui.ModNone, u.archiveTask); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, 's', gocui.ModNone, u.starTask); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, 'c', gocui.ModNone, u.toggleCompleted); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, '/', gocui.ModNone, u.startSearch); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, '?', gocui.ModNone, u.toggleHelp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, gocui.KeyArrowDown, gocui.ModNone, u.moveDown); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, 'j', gocui.ModNone, u.moveDown); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, gocui.KeyArrowUp, gocui.ModNone, u.moveUp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, 'k', gocui.ModNone, u.moveUp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewSearch, gocui.KeyEnter, gocui.ModNone, u.submitSearch); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewSearch, gocui.KeyEsc, gocui.ModNone, u.cancelSearch); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewAdd, gocui.KeyEnter, gocui.ModNone, u.submitAdd); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewAdd, gocui.KeyEsc, gocui.ModNone, u.cancelAdd); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, gocui.KeyEsc, gocui.ModNone, u.closeHelp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, 'q', gocui.ModNone, u.closeHelp); err != nil {
		return err
	}
	return gui.SetKeybinding(viewHelp, '?', gocui.ModNone, u.closeHelp)
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	u.renderHeader(headerView)

	footerY := maxY - 2
	if footerY < 1 {
		footerY = 1
	}
	footerView, err := gui.SetView(viewFooter, 0, footerY, maxX-1, maxY-1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	u.renderFooter(footerView)

	bodyTop := 1
	bodyBottom := footerY - 1
	if bodyBottom < bodyTop {
		return nil
	}

	statsWidth := 30
	if statsWidth > maxX/2 {
		statsWidth = maxX / 2
	}
	tasksX1 := maxX - statsWidth - 2

	tasksView, err := gui.SetView(viewTasks, 0, bodyTop, tasksX1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		tasksView.Title = "Tasks"
	}
	u.renderTasks(tasksView)

	statsView, err := gui.SetView(viewStats, tasksX1+1, bodyTop, maxX-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		statsView.Title = "This Week"
	}
	u.renderStats(statsView)

	if u.searchActive {
		if err := u.showInput(gui, viewSearch, "Search", u.todos.Filters().Search); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewSearch)
	}

	if u.addActive {
		if err := u.showInput(gui, viewAdd, "New task title", ""); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewAdd)
	}

	if u.helpActive {
		if err := u.showHelp(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewHelp)
	}

	if gui.CurrentView() == nil {
		_, _ = gui.SetCurrentView(viewTasks)
	}
	gui.Cursor = u.searchActive || u.addActive

	return nil
}

func (u *UI) showInput(gui *gocui.Gui, name, title, initial string) error {
	maxX, maxY := gui.Size()
	width := maxX / 2
	if width < 30 {
		width = maxX - 2
	}
	x0 := (maxX - width) / 2
	y0 := maxY / 3

	input, err := gui.SetView(name, x0, y0, x0+width, y0+2, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		input.Title = title
		input.Editable = true
		input.Wrap = false
		if initial != "" {
			fmt.Fprint(input, initial)
			input.SetCursor(len(initial), 0)
		}
	}
	_, err = gui.SetCurrentView(name)
	return err
}

func (u *UI) showHelp(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := 44
	height := len(helpLines) + 1
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}

	helpView, err := gui.SetView(viewHelp, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		helpView.Title = "Help"
		for _, line := range helpLines {
			fmt.Fprintln(helpView, line)
		}
	}
	_, err = gui.SetCurrentView(viewHelp)
	return err
}

var helpLines = []string{
	"j/k or arrows  move selection",
	"x              toggle done",
	"a              add task",
	"d              delete task",
	"v              archive task",
	"s              star / unstar",
	"c              show/hide completed",
	"/              search",
	"r              reload",
	"q              quit",
}

func (u *UI) renderHeader(v *gocui.View) {
	v.Clear()

	who := "not signed in"
	if user := u.sess.User(); user != nil {
		who = user.Email
	}

	stats := u.todos.Stats()
	fmt.Fprintf(v, " TaskFlow | %s | %d tasks, %d done (%d%%), %d overdue",
		who, stats.Total, stats.Completed, view.CompletionRate(stats), stats.Overdue)
}

func (u *UI) renderFooter(v *gocui.View) {
	v.Clear()
	if u.status != "" {
		fmt.Fprintf(v, " %s", u.status)
		return
	}
	fmt.Fprint(v, " a:add x:done d:delete /:search ?:help q:quit")
}

func (u *UI) renderTasks(v *gocui.View) {
	v.Clear()

	if u.todos.Loading() {
		fmt.Fprintln(v, " loading...")
		return
	}
	if len(u.visible) == 0 {
		fmt.Fprintln(v, " no tasks. press 'a' to add one.")
		return
	}

	for i, task := range u.visible {
		marker := "  "
		if i == u.selected {
			marker = "> "
		}
		fmt.Fprintf(v, "%s%s\n", marker, formatTask(task))
	}
}

func (u *UI) renderStats(v *gocui.View) {
	v.Clear()

	days := view.WeeklyProductivity(u.todos.Tasks(), time.Now())
	maxCount := 0
	for _, day := range days {
		if day.Count > maxCount {
			maxCount = day.Count
		}
	}
	for _, day := range days {
		fmt.Fprintf(v, " %s %s %d\n", day.Day, histogramBar(day.Count, maxCount, 16), day.Count)
	}

	fmt.Fprintln(v)
	filters := u.todos.Filters()
	if filters.Search != "" {
		fmt.Fprintf(v, " search: %s\n", filters.Search)
	}
	if !u.showCompleted {
		fmt.Fprintln(v, " completed hidden")
	}
}

func (u *UI) refresh() {
	u.visible = view.Visible(view.Sort(u.todos.Tasks()), u.showCompleted)
	if u.selected >= len(u.visible) {
		u.selected = len(u.visible) - 1
	}
	if u.selected < 0 {
		u.selected = 0
	}
}

func (u *UI) reloadAll() {
	ctx := context.Background()
	if err := u.todos.Load(ctx, model.FilterPatch{}); err != nil {
		u.status = api.Message(err)
	} else {
		u.status = ""
	}
	if err := u.todos.RefreshStats(ctx); err != nil {
		u.status = api.Message(err)
	}
	u.refresh()
}

func (u *UI) selectedTask() *model.Task {
	if u.selected < 0 || u.selected >= len(u.visible) {
		return nil
	}
	return &u.visible[u.selected]
}

func (u *UI) quit(*gocui.Gui, *gocui.View) error {
	return gocui.ErrQuit
}

func (u *UI) reload(*gocui.Gui, *gocui.View) error {
	u.reloadAll()
	return nil
}

func (u *UI) moveDown(*gocui.Gui, *gocui.View) error {
	if u.selected < len(u.visible)-1 {
		u.selected++
	}
	return nil
}

func (u *UI) moveUp(*gocui.Gui, *gocui.View) error {
	if u.selected > 0 {
		u.selected--
	}
	return nil
}

func (u *UI) toggleTask(*gocui.Gui, *gocui.View) error {
	task := u.selectedTask()
	if task == nil {
		return nil
	}
	if _, err := u.todos.Toggle(context.Background(), task.ID); err != nil {
		u.status = api.Message(err)
	} else {
		u.status = ""
	}
	u.refresh()
	return nil
}

func (u *UI) deleteTask(*gocui.Gui, *gocui.View) error {
	task := u.selectedTask()
	if task == nil {
		return nil
	}
	if err := u.todos.Delete(context.Background(), task.ID); err != nil {
		u.status = api.Message(err)
	} else {
		u.status = "deleted: " + task.Title
	}
	u.refresh()
	return nil
}

func (u *UI) archiveTask(*gocui.Gui, *gocui.View) error {
	task := u.selectedTask()
	if task == nil {
		return nil
	}
	if err := u.todos.Archive(context.Background(), task.ID); err != nil {
		u.status = api.Message(err)
	} else {
		u.status = "archived: " + task.Title
	}
	u.refresh()
	return nil
}

func (u *UI) starTask(*gocui.Gui, *gocui.View) error {
	task := u.selectedTask()
	if task == nil {
		return nil
	}
	starred := !task.Starred
	if _, err := u.todos.Update(context.Background(), task.ID, api.TaskPatch{Starred: &starred}); err != nil {
		u.status = api.Message(err)
	} else {
		u.status = ""
	}
	u.refresh()
	return nil
}

func (u *UI) toggleCompleted(*gocui.Gui, *gocui.View) error {
	u.showCompleted = !u.showCompleted
	u.refresh()
	return nil
}

func (u *UI) startAdd(*gocui.Gui, *gocui.View) error {
	u.addActive = true
	return nil
}

func (u *UI) submitAdd(gui *gocui.Gui, v *gocui.View) error {
	title := strings.TrimSpace(v.Buffer())
	u.addActive = false
	if title == "" {
		return nil
	}
	if _, err := u.todos.Create(context.Background(), api.TaskInput{Title: title}); err != nil {
		u.status = api.Message(err)
	} else {
		u.status = "created: " + title
	}
	u.refresh()
	_, _ = gui.SetCurrentView(viewTasks)
	return nil
}

func (u *UI) cancelAdd(gui *gocui.Gui, _ *gocui.View) error {
	u.addActive = false
	_, _ = gui.SetCurrentView(viewTasks)
	return nil
}

func (u *UI) startSearch(*gocui.Gui, *gocui.View) error {
	u.searchActive = true
	return nil
}

func (u *UI) submitSearch(gui *gocui.Gui, v *gocui.View) error {
	term := strings.TrimSpace(v.Buffer())
	u.searchActive = false
	if err := u.todos.Search(context.Background(), term); err != nil {
		u.status = api.Message(err)
	} else {
		u.status = ""
	}
	u.refresh()
	_, _ = gui.SetCurrentView(viewTasks)
	return nil
}

func (u *UI) cancelSearch(gui *gocui.Gui, _ *gocui.View) error {
	u.searchActive = false
	_, _ = gui.SetCurrentView(viewTasks)
	return nil
}

func (u *UI) toggleHelp(*gocui.Gui, *gocui.View) error {
	u.helpActive = !u.helpActive
	return nil
}

func (u *UI) closeHelp(gui *gocui.Gui, _ *gocui.View) error {
	u.helpActive = false
	_, _ = gui.SetCurrentView(viewTasks)
	return nil
}
