package domain

// CarouselDot - индикатор позиции под изображением.
type CarouselDot struct {
	Index  int
	Active bool
}

// Carousel хранит текущий индекс в фиксированном списке изображений.
// Переходы замыкаются по модулю количества изображений в обе стороны.
// Не потокобезопасна: владелец (DetailView) синхронизирует доступ сам.
type Carousel struct {
	images []string
	index  int
}

// NewCarousel создает карусель, начиная с первого изображения.
func NewCarousel(images []string) (*Carousel, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	copied := make([]string, len(images))
	copy(copied, images)
	return &Carousel{images: copied}, nil
}

// Next переходит к следующему изображению, после последнего - к первому.
func (c *Carousel) Next() {
	c.index = (c.index + 1) % len(c.images)
}

// Prev переходит к предыдущему изображению, перед первым - к последнему.
func (c *Carousel) Prev() {
	c.index = (c.index - 1 + len(c.images)) % len(c.images)
}

func (c *Carousel) Index() int {
	return c.index
}

func (c *Carousel) Count() int {
	return len(c.images)
}

// Current возвращает URL текущего изображения.
func (c *Carousel) Current() string {
	return c.images[c.index]
}

// Images возвращает копию списка изображений.
func (c *Carousel) Images() []string {
	out := make([]string, len(c.images))
	copy(out, c.images)
	return out
}

// Dots возвращает ряд индикаторов, активен ровно один.
func (c *Carousel) Dots() []CarouselDot {
	dots := make([]CarouselDot, len(c.images))
	for i := range c.images {
		dots[i] = CarouselDot{Index: i, Active: i == c.index}
	}
	return dots
}
