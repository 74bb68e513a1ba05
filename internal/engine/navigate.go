package engine

func (e *Engine) navigate(a Action) {
	switch e.state {
	case Menu:
		e.navigateMenu(a)
	case Loading, ConfigWait:
		if a == Back {
			e.goMenu()
		}
	case PresentingTitle, PageNumberPause:
		e.navigateTitles(a)
	case PresentingArticle:
		if a == Select || a == Back {
			e.leaveArticle()
		}
	case EndScreen:
		e.exit()
	}
}

func (e *Engine) navigateMenu(a Action) {
	switch a {
	case Up:
		e.feeds.Move(-1)
	case Down:
		e.feeds.Move(1)
	case Select:
		if idx, ok := e.feeds.Selected(); ok {
			e.selectFeed(idx)
		}
	case Back:
		e.exit()
	}
}

func (e *Engine) navigateTitles(a Action) {
	switch a {
	case Up, Down:
		delta := 1
		if a == Up {
			delta = -1
		}
		if !e.titles.Move(delta) {
			return
		}
		e.pausePrefetch()
		e.presentTitle()
	case Select:
		e.startArticle()
	case Back:
		e.goMenu()
	}
}

// goMenu drops the headline stream and every pending timer.
func (e *Engine) goMenu() {
	e.timers.CancelAll()
	e.titles.Clear()
	e.article.Close()
	e.cursor.Reset()
	e.retries = 0
	e.acquiring = false
	e.navigating = false
	e.focalOnly = false
	e.pageShown = false
	e.enter(Menu)
}
